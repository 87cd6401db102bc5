package app

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valoriza/valoriza/internal/config"
)

func TestApplication_Fields(t *testing.T) {
	t.Run("describes the resolved settings without the password", func(t *testing.T) {
		// given
		cfg := config.Application{
			Database: config.Database{Host: "db", Port: 5432, User: "valoriza", Pass: "secret", Name: "valoriza", Schema: "valoriza"},
			Curve:    config.Curve{CacheEnabled: true, CacheTtl: 5 * time.Minute},
			Auth:     config.Auth{CurveRoles: []string{"manager"}},
		}
		application := &Application{cfg: cfg, srv: &http.Server{Addr: ":8181"}}

		// when
		fields := application.Fields()

		// then
		assert.Equal(t, ":8181", fields["addr"])
		assert.Equal(t, "valoriza@db:5432/valoriza", fields["database"])
		assert.Equal(t, true, fields["curveCache"])
		assert.Equal(t, "5m0s", fields["curveCacheTtl"])
		assert.Equal(t, []string{"manager"}, fields["curveRoles"])
		for _, value := range fields {
			assert.NotContains(t, fmt.Sprint(value), "secret")
		}
	})
}
