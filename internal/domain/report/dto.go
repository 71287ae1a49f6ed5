package report

import (
	"github.com/sikapay/sikapay-backend-go/internal/pkg/validator"
)

type ReportRequest struct {
	PeriodID     string  `json:"period_id" validate:"required,uuid"`
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid"`
	Provisional  bool    `json:"provisional"`
}

func (r *ReportRequest) Validate() error {
	return validator.Struct(r).Err()
}

type ExportRequest struct {
	ReportRequest
	Kind   Kind   `json:"kind" validate:"required,oneof=paye ssnit bank_advice withholding"`
	Format string `json:"format" validate:"required,oneof=pdf xlsx csv"`
}

func (r *ExportRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ExportedDocument is a rendered report ready to be streamed to the caller.
type ExportedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}
