package order

import (
	"fmt"
	"strings"
	"time"

	"lastmile/internal/pkg/errs"
)

// Proof references a proof-of-delivery image stored outside the database.
type Proof struct {
	URL        string
	ExternalID string
}

// Delivery records a successful hand-over.
type Delivery struct {
	deliveredAt  time.Time
	receiverName string
	proof        *Proof
}

func NewDelivery(receiverName string, deliveredAt time.Time, proof *Proof) (*Delivery, error) {
	if strings.TrimSpace(receiverName) == "" {
		return nil, ErrReceiverNameIsRequired
	}
	if proof != nil && proof.URL == "" {
		return nil, errs.NewValueIsRequiredError("proof url")
	}

	return &Delivery{
		deliveredAt:  deliveredAt.UTC(),
		receiverName: receiverName,
		proof:        proof,
	}, nil
}

func (d *Delivery) DeliveredAt() time.Time {
	return d.deliveredAt
}

func (d *Delivery) ReceiverName() string {
	return d.receiverName
}

// Proof returns nil when the delivery was recorded without an image.
func (d *Delivery) Proof() *Proof {
	return d.proof
}

// IncidentKind classifies why a delivery attempt failed.
type IncidentKind string

const (
	IncidentCustomerAbsent  IncidentKind = "CustomerAbsent"
	IncidentAddressNotFound IncidentKind = "AddressNotFound"
	IncidentRefused         IncidentKind = "Refused"
	IncidentDamaged         IncidentKind = "Damaged"
	IncidentOther           IncidentKind = "Other"
)

func (k IncidentKind) Validate() error {
	switch k {
	case IncidentCustomerAbsent, IncidentAddressNotFound, IncidentRefused, IncidentDamaged, IncidentOther:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("incident kind", fmt.Errorf("%q is not a known incident kind", string(k)))
	}
}

// Incident records a failed delivery attempt.
type Incident struct {
	kind        IncidentKind
	description string
	reportedAt  time.Time
}

func NewIncident(kind IncidentKind, description string, reportedAt time.Time) (*Incident, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	return &Incident{
		kind:        kind,
		description: strings.TrimSpace(description),
		reportedAt:  reportedAt.UTC(),
	}, nil
}

func (i *Incident) Kind() IncidentKind {
	return i.kind
}

func (i *Incident) Description() string {
	return i.description
}

func (i *Incident) ReportedAt() time.Time {
	return i.reportedAt
}
