package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// UserProfile is the backend's account record. Known fields are decoded for
// the client's own use; Raw keeps the full server document, which stays the
// authoritative copy and is what gets persisted.
//
// Age, Salary and Assets are pointers: nil means the server did not send the
// field, which is different from an explicit zero.
type UserProfile struct {
	ID             ID              `json:"id,omitempty"`
	Username       string          `json:"username,omitempty"`
	Email          string          `json:"email,omitempty"`
	Nickname       string          `json:"nickname,omitempty"`
	Age            *int64          `json:"age,omitempty"`
	Salary         *int64          `json:"salary,omitempty"`
	Assets         *int64          `json:"assets,omitempty"`
	JoinedProducts []JoinedProduct `json:"joined_products"`

	Raw json.RawMessage `json:"-"`
}

// joinedProductKeys lists where the joined-product collection may live, in
// order of precedence. Older serializers call it financial_products or products.
var joinedProductKeys = []string{"joined_products", "financial_products", "products"}

func (u *UserProfile) UnmarshalJSON(b []byte) error {
	type plain UserProfile
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	p.JoinedProducts = []JoinedProduct{}
	for _, key := range joinedProductKeys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var joined []JoinedProduct
		if err := json.Unmarshal(raw, &joined); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		p.JoinedProducts = joined
		break
	}

	*u = UserProfile(p)
	u.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the server document when there is one, so a persisted
// profile round-trips without losing fields the client does not know about.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	type plain UserProfile
	return json.Marshal(plain(u))
}

// HasJoined reports whether the portfolio holds a product with the given code.
func (u *UserProfile) HasJoined(productCode string) bool {
	for _, jp := range u.JoinedProducts {
		if jp.ProductCode == productCode {
			return true
		}
	}
	return false
}

// FindJoined returns the joined-product relation with the given id.
func (u *UserProfile) FindJoined(id ID) (JoinedProduct, bool) {
	for _, jp := range u.JoinedProducts {
		if jp.ID == id {
			return jp, true
		}
	}
	return JoinedProduct{}, false
}

// JoinedProduct is a user's enrolment in a product. ID is the relation id,
// distinct from ProductCode. The maturity amount is computed by the server.
type JoinedProduct struct {
	ID             ID               `json:"id"`
	ProductCode    string           `json:"fin_prdt_cd"`
	ProductName    string           `json:"fin_prdt_nm,omitempty"`
	CompanyName    string           `json:"kor_co_nm,omitempty"`
	InterestRate   decimal.Decimal  `json:"intr_rate"`
	Term           Term             `json:"save_trm,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	MaturityAmount *decimal.Decimal `json:"maturity_amount,omitempty"`
	JoinedAt       string           `json:"joined_at,omitempty"`
}

// ProfileUpdate carries the numeric profile fields a user can edit.
// Nil fields are left out of the request.
type ProfileUpdate struct {
	Age    *int64 `json:"age,omitempty"`
	Salary *int64 `json:"salary,omitempty"`
	Assets *int64 `json:"assets,omitempty"`
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.Age == nil && p.Salary == nil && p.Assets == nil
}

// JoinedProductUpdate changes the term or payment of a joined product.
type JoinedProductUpdate struct {
	Term   *int             `json:"save_trm,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Int64 is a small helper for building optional fields.
func Int64(v int64) *int64 {
	return &v
}
