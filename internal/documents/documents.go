// Package documents renders human-readable artifacts from policy data. The
// renderer works entirely from the denormalized PolicyDetail view, so it
// never touches the store and stays deterministic for a given policy.
package documents

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/models"
)

// Renderer produces the policy schedule document handed to landlords.
type Renderer interface {
	PolicySchedule(detail *models.PolicyDetail) ([]byte, error)
}

const scheduleTemplate = `RENT GUARANTEE POLICY SCHEDULE
==============================

Policy Number:    {{.Policy.PolicyNumber}}
Status:           {{.Policy.Status | upper}}
Issued:           {{.Policy.CreatedAt.Format "2006-01-02"}}

COVERAGE
--------
Period:           {{.Policy.StartDate.Format "2006-01-02"}} to {{.Policy.EndDate.Format "2006-01-02"}} ({{.Policy.CoverageMonths}} months)
Insured Rent:     {{money .Policy.MonthlyRent}} / month
Premium:          {{money .Policy.PremiumAmount}}
Risk Score:       {{printf "%.0f" .Policy.RiskScore}} ({{.Policy.Decision}})

LANDLORD
--------
Name:             {{.Landlord.FullName}}
Email:            {{.Landlord.Email}}

PROPERTY
--------
Address:          {{.Property.Address}}
Type:             {{.Property.Type}}

TENANT
------
Name:             {{.Tenant.FullName}}
Email:            {{.Tenant.Email}}
Lease:            {{.Tenant.LeaseStart.Format "2006-01-02"}} to {{.Tenant.LeaseEnd.Format "2006-01-02"}}
`

var scheduleFuncs = template.FuncMap{
	"upper": func(s models.PolicyStatus) string { return strings.ToUpper(string(s)) },
	"money": func(amount float64) string { return fmt.Sprintf("%.2f EUR", amount) },
}

type textRenderer struct {
	tpl *template.Template
}

// NewTextRenderer returns a Renderer producing plain-text schedules. The
// template is parsed once at construction; parse failures are programmer
// errors and panic.
func NewTextRenderer() Renderer {
	return &textRenderer{
		tpl: template.Must(template.New("schedule").Funcs(scheduleFuncs).Parse(scheduleTemplate)),
	}
}

func (r *textRenderer) PolicySchedule(detail *models.PolicyDetail) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, detail); err != nil {
		return nil, fmt.Errorf("render policy schedule: %w", err)
	}
	return buf.Bytes(), nil
}
