package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"travelFront/internal/models"
)

const (
	DefaultCBRURL = "https://www.cbr.ru/scripts/XML_daily.asp"

	cbrUSD = "R01235"
	cbrCNY = "R01375"
)

// CBRClient reads the Central Bank of Russia daily rates feed.
type CBRClient struct {
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
}

func NewCBRClient(httpClient *http.Client, baseURL string) *CBRClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultCBRURL
	}
	return &CBRClient{httpClient: httpClient, baseURL: baseURL, now: time.Now}
}

// Fetch returns the USD and CNY rates published for day.
func (c *CBRClient) Fetch(ctx context.Context, day time.Time) (models.ExchangeRates, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.ExchangeRates{}, fmt.Errorf("cbr: parse url: %w", err)
	}
	q := u.Query()
	q.Set("date_req", day.Format("02/01/2006"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.ExchangeRates{}, fmt.Errorf("cbr: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ExchangeRates{}, fmt.Errorf("cbr: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return models.ExchangeRates{}, fmt.Errorf("cbr: http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	usd, cny, err := parseCBR(resp.Body)
	if err != nil {
		return models.ExchangeRates{}, err
	}
	return models.ExchangeRates{USD: usd, CNY: cny, LastUpdated: c.now()}, nil
}

type cbrValute struct {
	ID      string `xml:"ID,attr"`
	Nominal string `xml:"Nominal"`
	Value   string `xml:"Value"`
}

type cbrValCurs struct {
	XMLName xml.Name    `xml:"ValCurs"`
	Valutes []cbrValute `xml:"Valute"`
}

// parseCBR extracts the rubles-per-unit rates of USD and CNY. The feed is
// windows-1251 encoded and uses decimal commas.
func parseCBR(r io.Reader) (float64, float64, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc cbrValCurs
	if err := dec.Decode(&doc); err != nil {
		return 0, 0, fmt.Errorf("cbr: decode xml: %w", err)
	}

	var usd, cny float64
	for _, v := range doc.Valutes {
		switch v.ID {
		case cbrUSD, cbrCNY:
		default:
			continue
		}
		rate, err := valuteRate(v)
		if err != nil {
			return 0, 0, fmt.Errorf("cbr: %s: %w", v.ID, err)
		}
		if v.ID == cbrUSD {
			usd = rate
		} else {
			cny = rate
		}
	}
	if usd == 0 || cny == 0 {
		return 0, 0, errors.New("cbr: USD or CNY missing from feed")
	}
	return usd, cny, nil
}

func valuteRate(v cbrValute) (float64, error) {
	value, err := parseCommaFloat(v.Value)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", v.Value, err)
	}
	nominal := 1.0
	if strings.TrimSpace(v.Nominal) != "" {
		nominal, err = parseCommaFloat(v.Nominal)
		if err != nil || nominal <= 0 {
			return 0, fmt.Errorf("nominal %q invalid", v.Nominal)
		}
	}
	return value / nominal, nil
}

func parseCommaFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}
