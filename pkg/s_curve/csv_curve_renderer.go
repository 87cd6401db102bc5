package s_curve

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CurveRenderer interface {
	RenderCurve(curve Curve) (string, error)
}

type CsvCurveRendererImpl struct {
}

func NewCsvCurveRenderer() *CsvCurveRendererImpl {
	return &CsvCurveRendererImpl{}
}

// RenderCurve writes one row per week followed by a single EVM summary row.
func (t *CsvCurveRendererImpl) RenderCurve(curve Curve) (string, error) {
	data := make([][]string, 0, len(curve.Weeks)+2)
	data = append(data, []string{"Week", "Start", "End", "PV", "EV", "PV cumulative", "EV cumulative"})
	for _, week := range curve.Weeks {
		data = append(data, []string{
			week.Label,
			week.WeekStart.Format(time.DateOnly),
			week.WeekEnd.Format(time.DateOnly),
			week.PV.StringFixed(2),
			week.EV.StringFixed(2),
			week.PVCumulative.StringFixed(2),
			week.EVCumulative.StringFixed(2),
		})
	}
	data = append(data, []string{
		"EVM",
		"SPI", optionalToString(curve.EVM.SPI, 4),
		"SV", curve.EVM.SV.StringFixed(2),
		"BAC", curve.EVM.BAC.StringFixed(2),
	})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func optionalToString(value *decimal.Decimal, places int32) string {
	if value == nil {
		return ""
	}
	return value.StringFixed(places)
}
