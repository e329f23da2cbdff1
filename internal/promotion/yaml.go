package promotion

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"dinekart/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML layout of a promotion catalog:
//
//	promotions:
//	  - code: SAVE10
//	    discountType: percentage
//	    discountValue: 10
//	    minimumOrder: 20
//	    active: true
//	    expiresAt: 2026-12-31
type catalogFile struct {
	Promotions []catalogEntry `yaml:"promotions"`
}

type catalogEntry struct {
	Code          string     `yaml:"code"`
	DiscountType  string     `yaml:"discountType"`
	DiscountValue amount     `yaml:"discountValue"`
	MinimumOrder  *amount    `yaml:"minimumOrder"`
	Active        *bool      `yaml:"active"`
	ExpiresAt     *timestamp `yaml:"expiresAt"`
}

// amount decodes a YAML scalar as an exact decimal.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q", value.Line, value.Value)
	}
	a.Decimal = d
	return nil
}

// timestamp accepts RFC 3339 or a bare date. A bare date stays valid through that day (UTC).
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return fmt.Errorf("line %d: invalid expiry %q", value.Line, value.Value)
	}
	t.Time = parsed.Add(24*time.Hour - time.Nanosecond)
	return nil
}

func (e catalogEntry) promotion() (model.Promotion, error) {
	p := model.Promotion{
		Code:          strings.TrimSpace(e.Code),
		DiscountType:  model.DiscountType(strings.ToLower(e.DiscountType)),
		DiscountValue: e.DiscountValue.Decimal,
		Active:        true,
	}

	if p.Code == "" {
		return p, fmt.Errorf("promotion code is required")
	}
	if !p.DiscountType.Valid() {
		return p, fmt.Errorf("promotion %s: invalid discount type %q", p.Code, e.DiscountType)
	}
	if p.DiscountValue.IsNegative() {
		return p, fmt.Errorf("promotion %s: discount value cannot be negative", p.Code)
	}
	if e.MinimumOrder != nil {
		minimum := e.MinimumOrder.Decimal
		p.MinimumOrder = &minimum
	}
	if e.Active != nil {
		p.Active = *e.Active
	}
	if e.ExpiresAt != nil {
		expires := e.ExpiresAt.Time
		p.ExpiresAt = &expires
	}

	return p, nil
}

// decodeCatalog reads a YAML catalog, gunzipping first when compressed is set.
func decodeCatalog(r io.Reader, compressed bool) ([]model.Promotion, error) {
	if compressed {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Promotion{}, nil
		}
		return nil, fmt.Errorf("failed to decode promotion catalog: %w", err)
	}

	promotions := make([]model.Promotion, 0, len(file.Promotions))
	for _, entry := range file.Promotions {
		p, err := entry.promotion()
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}

	return promotions, nil
}

// EncodeCatalog writes promotions in the YAML catalog layout.
func EncodeCatalog(w io.Writer, promotions []model.Promotion) error {
	type entry struct {
		Code          string  `yaml:"code"`
		DiscountType  string  `yaml:"discountType"`
		DiscountValue string  `yaml:"discountValue"`
		MinimumOrder  *string `yaml:"minimumOrder,omitempty"`
		Active        bool    `yaml:"active"`
		ExpiresAt     *string `yaml:"expiresAt,omitempty"`
	}

	out := struct {
		Promotions []entry `yaml:"promotions"`
	}{Promotions: make([]entry, 0, len(promotions))}

	for _, p := range promotions {
		e := entry{
			Code:          p.Code,
			DiscountType:  string(p.DiscountType),
			DiscountValue: p.DiscountValue.String(),
			Active:        p.Active,
		}
		if p.MinimumOrder != nil {
			s := p.MinimumOrder.String()
			e.MinimumOrder = &s
		}
		if p.ExpiresAt != nil {
			s := p.ExpiresAt.UTC().Format(time.RFC3339)
			e.ExpiresAt = &s
		}
		out.Promotions = append(out.Promotions, e)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode promotion catalog: %w", err)
	}
	return encoder.Close()
}
