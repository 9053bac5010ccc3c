package translate

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/techiemmk/job-portal-scrapper/internal/model"
)

// Validator checks derived postings and batches against their declared
// structure. Failures are logged and never block emission: a malformed
// posting in the output file beats a silently dropped one.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// CheckPosting validates one posting, logging each failed field constraint.
func (v *Validator) CheckPosting(posting model.RAGJobPosting) {
	err := v.validate.Struct(posting)
	if err == nil {
		return
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			v.logger.Warn("posting failed validation",
				"job_id", posting.Metadata.JobID,
				"field", fe.Namespace(),
				"constraint", fe.Tag())
		}
		return
	}
	v.logger.Warn("posting failed validation", "job_id", posting.Metadata.JobID, "error", err)
}

// CheckBatch validates the run envelope and every posting in it.
func (v *Validator) CheckBatch(batch model.ScraperRunBatch) {
	if err := v.validate.StructExcept(batch, "Data"); err != nil {
		v.logger.Warn("run batch failed validation", "company", batch.CompanyName, "error", err)
	}
	for _, posting := range batch.Data {
		v.CheckPosting(posting)
	}
}
