package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"andromeda/internal/models"
)

type ScienceClient interface {
	ListMissions(ctx context.Context, place models.ObservationPlace, startDateTime, endDateTime string) ([]byte, error)
	FetchEphemeris(ctx context.Context, args models.EphemerisArgs) ([]byte, error)
}

type scienceClient struct {
	baseURL  string
	pipeline string
	client   *http.Client
}

type ScienceConfig struct {
	BaseURL  string
	Pipeline string
}

func NewScienceClient(config ScienceConfig) ScienceClient {
	return &scienceClient{
		baseURL:  config.BaseURL,
		pipeline: config.Pipeline,
		client: &http.Client{
			Timeout: 70 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

func (c *scienceClient) ListMissions(ctx context.Context, place models.ObservationPlace, startDateTime, endDateTime string) ([]byte, error) {
	form := url.Values{}
	form.Set("action", "get-science-events")
	form.Set("date", startDateTime)
	form.Set("pipeline", c.pipeline)
	form.Set("lat", fmt.Sprintf("%v", place.Latitude))
	form.Set("long", fmt.Sprintf("%v", place.Longitude))
	form.Set("tend", endDateTime)
	form.Set("alt", fmt.Sprintf("%d,%d", place.AltMin, place.AltMax))
	form.Set("az", fmt.Sprintf("%d,%d", place.AzMin, place.AzMax))

	return c.submitForm(ctx, form)
}

func (c *scienceClient) FetchEphemeris(ctx context.Context, args models.EphemerisArgs) ([]byte, error) {
	loc := strings.SplitN(args.Loc, ",", 2)
	if len(loc) != 2 {
		return nil, fmt.Errorf("malformed ephemeris location %q", args.Loc)
	}

	isComet := args.IsComet
	if isComet == "" {
		isComet = "false"
	}

	form := url.Values{}
	form.Set("action", "get-ephemerid")
	form.Set("name", args.Name)
	form.Set("date", args.TStart)
	form.Set("lat", strings.TrimSpace(loc[0]))
	form.Set("lng", strings.TrimSpace(loc[1]))
	form.Set("step", "10")
	form.Set("duration", integerPrefix(args.Duration))
	form.Set("et", integerPrefix(args.ExpTime))
	form.Set("gain", integerPrefix(args.Gain))
	form.Set("is_comet", isComet)

	return c.submitForm(ctx, form)
}

func (c *scienceClient) submitForm(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Andromeda/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("science API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return body, nil
}

// integerPrefix усекает числовую строку до целой части ("120.5" -> "120"),
// API не принимает дробные значения.
func integerPrefix(s string) string {
	return strings.SplitN(s, ".", 2)[0]
}
