// Package pricing turns a course price and an optional promo discount into the
// transfer instruction shown to the payer.
package pricing

// Intent is the priced, displayable result of starting a purchase.
type Intent struct {
	CourseID        uint   `json:"course_id"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discount_percent"`
	Discount        int64  `json:"discount"`
	FinalAmount     int64  `json:"final_amount"`
	IsFree          bool   `json:"is_free"`
	TransferCode    string `json:"transfer_code"`
	PromoCodeID     *uint  `json:"promo_code_id,omitempty"`
	PromoCode       string `json:"promo_code,omitempty"`
}

// Discount returns price*percent/100 rounded half-up.
func Discount(price int64, percent int) int64 {
	if percent <= 0 || price <= 0 {
		return 0
	}
	if percent >= 100 {
		return price
	}
	return (price*int64(percent) + 50) / 100
}

// BuildIntent prices a course. promoID and promoCode are empty when no promo applies.
func BuildIntent(courseID uint, price int64, percent int, promoID *uint, promoCode, transferCode string) Intent {
	discount := Discount(price, percent)
	final := price - discount

	return Intent{
		CourseID:        courseID,
		Price:           price,
		DiscountPercent: percent,
		Discount:        discount,
		FinalAmount:     final,
		IsFree:          final == 0,
		TransferCode:    transferCode,
		PromoCodeID:     promoID,
		PromoCode:       promoCode,
	}
}
