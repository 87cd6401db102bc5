package s_curve

import "github.com/shopspring/decimal"

// EVMResult holds the performance indices at the end of the curve.
// SPI is nil when nothing was planned. CPI and CV stay nil: no actual cost series is tracked,
// and planned cost is not a stand-in for it.
type EVMResult struct {
	SPI     *decimal.Decimal
	SV      decimal.Decimal
	CPI     *decimal.Decimal
	CV      *decimal.Decimal
	PVTotal decimal.Decimal
	EVTotal decimal.Decimal
	BAC     decimal.Decimal
}

func CalculateEVM(buckets []WeekBucket, bac decimal.Decimal) EVMResult {
	pvTotal, evTotal := decimal.Zero, decimal.Zero
	if len(buckets) > 0 {
		last := buckets[len(buckets)-1]
		pvTotal, evTotal = last.PVCumulative, last.EVCumulative
	}

	result := EVMResult{
		SV:      evTotal.Sub(pvTotal),
		PVTotal: pvTotal,
		EVTotal: evTotal,
		BAC:     bac,
	}
	if pvTotal.IsPositive() {
		spi := evTotal.Div(pvTotal)
		result.SPI = &spi
	}
	return result
}
