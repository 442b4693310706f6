package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentDone    PaymentStatus = "DONE"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed, PaymentDone:
		return true
	}
	return false
}

type Application struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	IDNumber      string        `json:"idNumber"`
	Address       string        `json:"address"`
	Mobile        string        `json:"mobile"`
	Email         string        `json:"email"`
	Photo         string        `json:"photo,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

var (
	emailPattern  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	mobilePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
)

// Validate checks the submission fields and returns one message per problem.
func (a *Application) Validate() []string {
	var problems []string

	if strings.TrimSpace(a.Name) == "" {
		problems = append(problems, "Name is required")
	} else if len(a.Name) > 100 {
		problems = append(problems, "Name cannot exceed 100 characters")
	}

	if strings.TrimSpace(a.IDNumber) == "" {
		problems = append(problems, "ID Number is required")
	} else if len(a.IDNumber) > 50 {
		problems = append(problems, "ID Number cannot exceed 50 characters")
	}

	if strings.TrimSpace(a.Address) == "" {
		problems = append(problems, "Address is required")
	} else if len(a.Address) > 500 {
		problems = append(problems, "Address cannot exceed 500 characters")
	}

	if strings.TrimSpace(a.Mobile) == "" {
		problems = append(problems, "Mobile number is required")
	} else if len(a.Mobile) > 20 {
		problems = append(problems, "Mobile number cannot exceed 20 characters")
	} else if !mobilePattern.MatchString(a.Mobile) {
		problems = append(problems, "Please enter a valid mobile number")
	}

	if strings.TrimSpace(a.Email) == "" {
		problems = append(problems, "Email is required")
	} else if !emailPattern.MatchString(a.Email) {
		problems = append(problems, "Please enter a valid email")
	}

	if a.PaymentStatus != "" && !a.PaymentStatus.Valid() {
		problems = append(problems, fmt.Sprintf("Invalid payment status %q", a.PaymentStatus))
	}

	return problems
}

// Normalize applies the same canonicalization the store expects: trimmed
// fields, lowercase email, uppercase payment status defaulting to PENDING.
func (a *Application) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.IDNumber = strings.TrimSpace(a.IDNumber)
	a.Address = strings.TrimSpace(a.Address)
	a.Mobile = strings.TrimSpace(a.Mobile)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.PaymentStatus = PaymentStatus(strings.ToUpper(string(a.PaymentStatus)))
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
}
