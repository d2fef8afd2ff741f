package tips

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/retvizor/invest-backend/internal/common/config"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/errs"
)

// Client talks to the external tip-generation service. All of its consumers
// treat failures as "no tip available".
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg *config.Tips) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
	}
}

// GetInstrumentTip fetches the recommendation for a user instrument.
func (c *Client) GetInstrumentTip(ctx context.Context, userInstrumentID string) (*domain.InstrumentTip, error) {
	uri := fmt.Sprintf("%s/user_instruments/%s", c.baseURL, userInstrumentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewStack(fmt.Errorf("tip service responded with status %d", resp.StatusCode))
	}

	res := &getInstrumentTipResponse{}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return nil, errs.NewStack(err)
	}

	return res.CreateDomain(), nil
}
