package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// QARequest is the ask-a-question payload. TopK of zero means "use the
// configured default".
type QARequest struct {
	Question string `json:"question" validate:"required,max=2000"`
	TopK     int    `json:"top_k" validate:"omitempty,min=1,max=10"`
}

func (params *QARequest) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// Citation points back at one retrieved chunk. Text is truncated for
// display; the full chunk text went into the model's context instead.
type Citation struct {
	DocID      string  `json:"doc_id"`
	DocName    string  `json:"doc_name"`
	ChunkID    string  `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

type QAResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

type IngestResponse struct {
	DocID         string `json:"doc_id"`
	ChunksCreated int    `json:"chunks_created"`
}
