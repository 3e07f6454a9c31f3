package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ProductKind selects one of the catalog lists.
type ProductKind string

const (
	KindDeposit ProductKind = "deposit"
	KindSaving  ProductKind = "saving"
	KindLoan    ProductKind = "loan"
)

// Product is a read-only catalog record identified by its product code.
type Product struct {
	Code        string          `json:"fin_prdt_cd"`
	Name        string          `json:"fin_prdt_nm"`
	CompanyName string          `json:"kor_co_nm"`
	JoinWay     string          `json:"join_way,omitempty"`
	Options     []ProductOption `json:"options,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Product(v)
	p.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// BestRate returns the highest preferential (or base) rate over the options.
func (p Product) BestRate() (decimal.Decimal, bool) {
	var (
		best  decimal.Decimal
		found bool
	)
	for _, o := range p.Options {
		r := o.Rate
		if o.PreferentialRate != nil && o.PreferentialRate.GreaterThan(r) {
			r = *o.PreferentialRate
		}
		if !found || r.GreaterThan(best) {
			best, found = r, true
		}
	}
	return best, found
}

// ProductOption is one rate/term combination of a product.
type ProductOption struct {
	Term             Term             `json:"save_trm,omitempty"`
	RateType         string           `json:"intr_rate_type_nm,omitempty"`
	Rate             decimal.Decimal  `json:"intr_rate"`
	PreferentialRate *decimal.Decimal `json:"intr_rate2,omitempty"`
}
