package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MarvinNL046/vindelektricien-sub000/internal/domain/entities"
	apperrors "github.com/MarvinNL046/vindelektricien-sub000/pkg/errors"
)

const maxRequestBody = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// Failures come back as validation errors naming the offending fields.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request payload")
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return apperrors.NewValidationError(strings.Join(msgs, "; "))
		}
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min", "gte", "lte":
		return fmt.Sprintf("%s is out of range", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s is not a valid coordinate", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// submissionRequest is the body of POST /api/facilities. The region may be
// sent under its US or NL data file name.
type submissionRequest struct {
	Name                string   `json:"name" validate:"required,max=200"`
	TypeSlug            string   `json:"type_slug" validate:"required,max=100"`
	Address             string   `json:"address" validate:"max=300"`
	City                string   `json:"city" validate:"required,max=100"`
	County              string   `json:"county" validate:"max=100"`
	Region              string   `json:"region" validate:"max=100"`
	RegionAbbr          string   `json:"region_abbr" validate:"max=10"`
	State               string   `json:"state" validate:"max=100"`
	StateAbbr           string   `json:"state_abbr" validate:"max=10"`
	Province            string   `json:"province" validate:"max=100"`
	ProvinceAbbr        string   `json:"province_abbr" validate:"max=10"`
	PostalCode          string   `json:"postal_code" validate:"max=20"`
	Country             string   `json:"country" validate:"max=100"`
	Latitude            *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude           *float64 `json:"longitude" validate:"omitempty,longitude"`
	Phone               string   `json:"phone" validate:"max=50"`
	Email               string   `json:"email" validate:"omitempty,email,max=200"`
	Website             string   `json:"website" validate:"omitempty,url,max=300"`
	Description         string   `json:"description" validate:"max=2000"`
	Amenities           []string `json:"amenities" validate:"max=30,dive,max=100"`
	OpeningHours        string   `json:"opening_hours" validate:"max=500"`
	HasEmergencyService bool     `json:"has_emergency_service"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (req *submissionRequest) toFacility() *entities.Facility {
	f := &entities.Facility{
		Name:                req.Name,
		TypeSlug:            strings.TrimSpace(req.TypeSlug),
		Address:             strings.TrimSpace(req.Address),
		City:                strings.TrimSpace(req.City),
		County:              strings.TrimSpace(req.County),
		Region:              firstNonEmpty(req.Region, req.State, req.Province),
		RegionAbbr:          firstNonEmpty(req.RegionAbbr, req.StateAbbr, req.ProvinceAbbr),
		PostalCode:          strings.TrimSpace(req.PostalCode),
		Country:             strings.TrimSpace(req.Country),
		Phone:               strings.TrimSpace(req.Phone),
		Email:               strings.TrimSpace(req.Email),
		Website:             strings.TrimSpace(req.Website),
		Description:         strings.TrimSpace(req.Description),
		Amenities:           req.Amenities,
		OpeningHours:        strings.TrimSpace(req.OpeningHours),
		HasEmergencyService: req.HasEmergencyService,
	}
	if req.Latitude != nil && req.Longitude != nil {
		f.Coordinates = &entities.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}
	return f
}

// claimRequest is the body of POST /api/claims
type claimRequest struct {
	FacilityID         string `json:"facility_id" validate:"required_without=FacilitySlug,max=100"`
	FacilitySlug       string `json:"facility_slug" validate:"max=300"`
	ContactEmail       string `json:"contact_email" validate:"required,email,max=200"`
	ContactPhone       string `json:"contact_phone" validate:"max=50"`
	JobTitle           string `json:"job_title" validate:"max=100"`
	CompanyName        string `json:"company_name" validate:"max=200"`
	Message            string `json:"message" validate:"max=2000"`
	VerificationMethod string `json:"verification_method" validate:"omitempty,oneof=email phone document"`
}

func (req *claimRequest) toClaim() *entities.Claim {
	return &entities.Claim{
		FacilityID:         strings.TrimSpace(req.FacilityID),
		FacilitySlug:       strings.TrimSpace(req.FacilitySlug),
		ContactEmail:       req.ContactEmail,
		ContactPhone:       strings.TrimSpace(req.ContactPhone),
		JobTitle:           strings.TrimSpace(req.JobTitle),
		CompanyName:        strings.TrimSpace(req.CompanyName),
		Message:            strings.TrimSpace(req.Message),
		VerificationMethod: req.VerificationMethod,
	}
}

// feedbackRequest is the body of POST /api/feedback
type feedbackRequest struct {
	Type      string `json:"type" validate:"required,oneof=rating comment"`
	Rating    *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Message   string `json:"message" validate:"max=2000"`
	PageTitle string `json:"page_title" validate:"max=300"`
	PageURL   string `json:"page_url" validate:"max=500"`
}

// statusChangeRequest is the body of the admin PATCH endpoints
type statusChangeRequest struct {
	Status          string `json:"status" validate:"required,max=20"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
	AdminNotes      string `json:"admin_notes" validate:"max=2000"`
	ReviewedBy      string `json:"reviewed_by" validate:"max=200"`
}

// UnmarshalJSON also accepts the camelCase keys sent by the admin UI
func (req *statusChangeRequest) UnmarshalJSON(data []byte) error {
	type plain statusChangeRequest
	aux := struct {
		*plain
		RejectionReasonCamel string `json:"rejectionReason"`
		AdminNotesCamel      string `json:"adminNotes"`
		ReviewedByCamel      string `json:"reviewedBy"`
	}{plain: (*plain)(req)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if req.RejectionReason == "" {
		req.RejectionReason = aux.RejectionReasonCamel
	}
	if req.AdminNotes == "" {
		req.AdminNotes = aux.AdminNotesCamel
	}
	if req.ReviewedBy == "" {
		req.ReviewedBy = aux.ReviewedByCamel
	}
	return nil
}

func (req *statusChangeRequest) toStatusChange() entities.StatusChange {
	return entities.StatusChange{
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
		AdminNotes:      req.AdminNotes,
		ReviewedBy:      strings.TrimSpace(req.ReviewedBy),
	}
}
