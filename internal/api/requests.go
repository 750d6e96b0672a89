package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-internship-automation/internal/models"
)

// flexInt accepts a JSON number or a numeric string. Unparsable strings
// decode as 0, matching how browser forms send empty inputs.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return f.UnmarshalParam(n.String())
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

// UnmarshalParam implements binding.BindUnmarshaler for multipart forms.
func (f *flexInt) UnmarshalParam(param string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
	if err != nil {
		v = 0
	}
	*f = flexInt(v)
	return nil
}

type autoApplyRequest struct {
	Email      string  `json:"email" form:"email" validate:"required"`
	Password   string  `json:"password" form:"password" validate:"required"`
	Role       string  `json:"role" form:"role" validate:"required"`
	Location   string  `json:"location" form:"location"`
	MinStipend flexInt `json:"minStipend" form:"minStipend"`
	MaxStipend flexInt `json:"maxStipend" form:"maxStipend"`
	Duration   string  `json:"duration" form:"duration"`
	Type       string  `json:"type" form:"type" validate:"required,oneof=internship job"`
}

func (r autoApplyRequest) criteria() models.SearchCriteria {
	return models.SearchCriteria{
		Role:       strings.TrimSpace(r.Role),
		Location:   strings.TrimSpace(r.Location),
		MinStipend: int(r.MinStipend),
		MaxStipend: int(r.MaxStipend),
		Duration:   strings.TrimSpace(r.Duration),
		Type:       models.ListingType(r.Type),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type recommendRequest struct {
	Skills     any     `json:"skills"`
	MinStipend flexInt `json:"minStipend"`
	MaxStipend flexInt `json:"maxStipend"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Password   string  `json:"password"`
}

type jobsRequest struct {
	Platforms  []string `json:"platforms" validate:"required,min=1"`
	Skills     string   `json:"skills" validate:"required"`
	Field      string   `json:"field" validate:"required"`
	MinStipend flexInt  `json:"minStipend" validate:"required"`
	MaxStipend flexInt  `json:"maxStipend" validate:"required"`
}

type skillMatchRequest struct {
	UserSkills      string `json:"userSkills" validate:"required"`
	JobRequirements string `json:"jobRequirements" validate:"required"`
}

type alertRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	TelegramID string `json:"telegramId"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate runs struct validation and turns failures into a ValidationError
// with the given message. Fields failing "required" are listed as missing;
// any other failure replaces the message with the field and rule.
func validate(v *validator.Validate, req any, message string) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &ValidationError{Message: message}
	}

	ve := &ValidationError{Message: message}
	for _, fe := range errs {
		switch fe.Tag() {
		case "required", "min":
			ve.Missing = append(ve.Missing, fe.Field())
		}
	}
	if len(ve.Missing) == 0 {
		fe := errs[0]
		ve.Message = "invalid " + fe.Field() + ": must satisfy " + fe.Tag()
		if fe.Param() != "" {
			ve.Message += "=" + fe.Param()
		}
	}
	return ve
}
