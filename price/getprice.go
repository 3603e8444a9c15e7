package price

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"kpcoilprice/data"

	"github.com/PuerkitoBio/goquery"
	"github.com/axgle/mahonia"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultURL is the KPC page publishing the oil prices.
const DefaultURL = "https://eapp.kpc.com.kw/oilprices/oilprices.aspx"

// maxPageSize caps how much of the upstream page is read.
const maxPageSize = 4 << 20

// priceFields maps the page element ids to the price pairs, in extraction order.
var priceFields = []struct {
	dateID  string
	priceID string
	set     func(p *data.OilPrices, v data.OilPrice)
}{
	{"lblDateAs", "lblKEC", func(p *data.OilPrices, v data.OilPrice) { p.CurrentKec = data.Some(v) }},
	{"lblMonth21", "lblButane2", func(p *data.OilPrices, v data.OilPrice) { p.CurrentButane = data.Some(v) }},
	{"lblMonth11", "lblButane1", func(p *data.OilPrices, v data.OilPrice) { p.PreviousButane = data.Some(v) }},
	{"lblMonth2", "lblPropane2", func(p *data.OilPrices, v data.OilPrice) { p.CurrentPropane = data.Some(v) }},
	{"lblMonth1", "lblPropane1", func(p *data.OilPrices, v data.OilPrice) { p.PreviousPropane = data.Some(v) }},
}

// ConvertToString decodes src from the srcCode charset into UTF-8.
func ConvertToString(src string, srcCode string) (string, error) {
	switch strings.ToLower(srcCode) {
	case "", "utf-8", "utf8":
		return src, nil
	}

	dec := mahonia.NewDecoder(srcCode)
	if dec == nil {
		return "", errors.Errorf("unsupported charset %q", srcCode)
	}
	return dec.ConvertString(src), nil
}

func elementText(doc *goquery.Document, id string) (string, error) {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return "", errors.Errorf("element %q not found on price page", id)
	}
	return sel.First().Text(), nil
}

// GetPricesFromDoc fills prices from doc in order. It stops at the first
// missing element, leaving the pairs already read in place.
func GetPricesFromDoc(doc *goquery.Document, prices *data.OilPrices) error {
	for _, f := range priceFields {
		date, err := elementText(doc, f.dateID)
		if err != nil {
			return err
		}
		p, err := elementText(doc, f.priceID)
		if err != nil {
			return err
		}
		f.set(prices, data.OilPrice{Price: p, Date: date})
	}
	return nil
}

// Source downloads and parses the price page.
type Source struct {
	URL     string
	Charset string
	Client  *http.Client
}

func NewSource(url string, charset string, timeout time.Duration) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{
		URL:     url,
		Charset: charset,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Document fetches the page and parses it as HTML.
func (s *Source) Document(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request error")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch price page error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("price page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, errors.Wrap(err, "read price page error")
	}

	result, err := ConvertToString(string(body), s.Charset)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result))
	if err != nil {
		return nil, errors.Wrap(err, "parse price page error")
	}
	return doc, nil
}

// Scrape returns the prices on the page. Failures are reported in the Error
// field together with whatever was extracted before them.
func (s *Source) Scrape(ctx context.Context) data.OilPrices {
	var prices data.OilPrices

	log.WithField("url", s.URL).Info("price: fetching price page")
	doc, err := s.Document(ctx)
	if err != nil {
		log.WithError(err).WithField("url", s.URL).Error("price: fetch price page error")
		prices.Error = data.Some(err.Error())
		return prices
	}

	if err := GetPricesFromDoc(doc, &prices); err != nil {
		log.WithError(err).Error("price: error parsing oil prices")
		prices.Error = data.Some(err.Error())
	}

	return prices
}
