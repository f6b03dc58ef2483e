package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	TwoWheeler   VehicleType = "2 Wheeler"
	ThreeWheeler VehicleType = "3 Wheeler"
	FourWheeler  VehicleType = "4 Wheeler"
	OtherVehicle VehicleType = "Other"
)

const (
	PayCash   Payment = "cash"
	PayOnline Payment = "online"
)

type (
	VehicleType string

	Payment string

	Money struct {
		Paise int64
	}

	// Session is the locally persisted identity of the signed-in user.
	Session struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}

	// VehicleEntry is one serviced-vehicle record as returned by the backend.
	VehicleEntry struct {
		ID        string
		Type      VehicleType
		Number    string
		Model     string
		Price     Money
		Payment   Payment
		CreatedAt time.Time

		// PriceFlagged marks entries whose price could not be parsed;
		// they count as zero in summaries but are never dropped.
		PriceFlagged bool

		// Pending marks a client-synthesized record awaiting the next
		// authoritative reload.
		Pending bool
	}

	LoginRequest struct {
		Mobile   string
		Password string
	}

	SignupRequest struct {
		Name            string
		Mobile          string
		Password        string
		ConfirmPassword string
	}
)

var (
	ErrEmptyType         = errors.New("empty vehicle type")
	ErrEmptyNumber       = errors.New("empty vehicle number")
	ErrEmptyModel        = errors.New("empty vehicle model")
	ErrEmptyPayment      = errors.New("empty payment mode")
	ErrNegativePrice     = errors.New("negative price")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrMissingCredential = errors.New("mobile and password are required")
	ErrInvalidMobile     = errors.New("mobile number must be 10 digits")
	ErrShortName         = errors.New("name must be at least 3 characters")
	ErrShortPassword     = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch  = errors.New("passwords do not match")
)

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

// NormalizeVehicleType maps a free-form type literal onto one of the four
// summary buckets. Hyphen/space and case variants of the wheeler categories
// are recognized; everything else lands in OtherVehicle.
func NormalizeVehicleType(s string) VehicleType {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", " ")
	n = strings.Join(strings.Fields(n), " ")
	switch n {
	case "2 wheeler", "two wheeler":
		return TwoWheeler
	case "3 wheeler", "three wheeler":
		return ThreeWheeler
	case "4 wheeler", "four wheeler":
		return FourWheeler
	default:
		return OtherVehicle
	}
}

// VehicleTypes returns the summary buckets in display order.
func VehicleTypes() []VehicleType {
	return []VehicleType{TwoWheeler, ThreeWheeler, FourWheeler, OtherVehicle}
}

func (m Money) Validate() error {
	if m.Paise < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Validate checks the fields required before an entry may be sent to the
// backend. Type and number are also what summary bucketing relies on.
func (e VehicleEntry) Validate() error {
	if strings.TrimSpace(string(e.Type)) == "" {
		return ErrEmptyType
	}
	if strings.TrimSpace(e.Number) == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(e.Model) == "" {
		return ErrEmptyModel
	}
	if strings.TrimSpace(string(e.Payment)) == "" {
		return ErrEmptyPayment
	}
	return e.Price.Validate()
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Mobile) == "" || r.Password == "" {
		return ErrMissingCredential
	}
	return nil
}

func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Mobile) == "" ||
		r.Password == "" || r.ConfirmPassword == "" {
		return errors.New("please fill in all fields")
	}
	if !mobileRe.MatchString(r.Mobile) {
		return ErrInvalidMobile
	}
	if len(strings.TrimSpace(r.Name)) < 3 {
		return ErrShortName
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(r.Password) < 6 {
		return ErrShortPassword
	}
	return nil
}
