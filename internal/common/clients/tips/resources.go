package tips

import "github.com/retvizor/invest-backend/internal/common/domain"

type getInstrumentTipResponse struct {
	Recommendation *string  `json:"recommendation"`
	RequiredReturn *float64 `json:"requiredReturn"`
}

func (res *getInstrumentTipResponse) CreateDomain() *domain.InstrumentTip {
	tip := &domain.InstrumentTip{}

	if res.Recommendation != nil {
		tip.Recommendation = *res.Recommendation
	}
	if res.RequiredReturn != nil {
		tip.RequiredReturn = *res.RequiredReturn
	}

	return tip
}
