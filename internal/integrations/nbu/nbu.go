package nbu

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/koliada1973/credit-service/internal/config"
)

// Client handles integration with the National Bank of Ukraine statistics
// service. Managers consult the official exchange rate when reviewing the
// offered daily rates.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new NBU client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.NBUURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// sendRequest fetches the daily exchange-rate XML for one currency code
func (c *Client) sendRequest(code string) ([]byte, error) {
	url := fmt.Sprintf("%s?valcode=%s", c.url, code)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("NBU XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the rate for the requested currency code
func parseXMLResponse(rawBody []byte, code string) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	for _, currency := range doc.FindElements("//exchange/currency") {
		ccElement := currency.FindElement("./cc")
		if ccElement == nil || ccElement.Text() != code {
			continue
		}
		rateElement := currency.FindElement("./rate")
		if rateElement == nil {
			return 0, fmt.Errorf("rate element not found for %s", code)
		}
		var rate float64
		if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
			return 0, fmt.Errorf("failed to parse rate: %v", err)
		}
		return rate, nil
	}

	return 0, fmt.Errorf("no exchange rate data found for %s", code)
}

// GetExchangeRate retrieves the current official UAH exchange rate for the
// given ISO currency code, e.g. "USD".
func (c *Client) GetExchangeRate(code string) (float64, error) {
	body, err := c.sendRequest(code)
	if err != nil {
		return 0, err
	}

	rate, err := parseXMLResponse(body, code)
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved NBU rate for %s: %.4f", code, rate)
	return rate, nil
}
