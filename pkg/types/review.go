package types

// Review is written by one User about one Place.
type Review struct {
	Base    `mapstructure:",squash"`
	PlaceID string `mapstructure:"place_id"`
	UserID  string `mapstructure:"user_id"`
	Text    string `mapstructure:"text"`
}

// NewReview returns a fresh Review.
func NewReview(placeID, userID, text string) *Review {
	return &Review{Base: newBase(), PlaceID: placeID, UserID: userID, Text: text}
}

// Kind returns KindReview.
func (r *Review) Kind() Kind { return KindReview }

// ToMap implements Entity.
func (r *Review) ToMap(redactSecret bool) map[string]any { return toMap(r, redactSecret) }

func (r *Review) fields() map[string]any {
	return map[string]any{
		"place_id": r.PlaceID,
		"user_id":  r.UserID,
		"text":     r.Text,
	}
}
