// internal/pipeline/errors.go
package pipeline

import (
	"errors"

	commonerrors "esrag/internal/common/errors"
	generateanswer "esrag/internal/stages/generate-answer"
	reportresults "esrag/internal/stages/report-results"
	retrievedocuments "esrag/internal/stages/retrieve-documents"
)

// mapRetrievalError converts retrieval stage sentinels into the standard
// error taxonomy surfaced by the CLI. Specific classifications are checked
// before the generic query failure.
func mapRetrievalError(err error, index string) error {
	switch {
	case errors.Is(err, retrievedocuments.ErrSearchTimeout):
		return commonerrors.NewSearchTimeoutError(index)
	case errors.Is(err, retrievedocuments.ErrIndexNotFound):
		return commonerrors.NewIndexNotFoundError(index)
	case errors.Is(err, retrievedocuments.ErrInvalidCredentials):
		return commonerrors.NewInvalidCredentialsError(err.Error())
	case errors.Is(err, retrievedocuments.ErrElasticsearchConnectionFailed):
		return commonerrors.NewElasticsearchConnectionFailedError(err)
	case errors.Is(err, retrievedocuments.ErrSearchQueryFailed):
		return commonerrors.NewSearchQueryFailedError(index, err)
	default:
		return err
	}
}

func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, generateanswer.ErrGenerationAuthFailed):
		return commonerrors.NewGenerationAuthFailedError(err.Error())
	case errors.Is(err, generateanswer.ErrGenerationQuotaExceeded):
		return commonerrors.NewGenerationQuotaExceededError(err.Error())
	case errors.Is(err, generateanswer.ErrGenerationInvalidRequest):
		return commonerrors.NewGenerationInvalidRequestError(err.Error())
	case errors.Is(err, generateanswer.ErrGeminiConnectionFailed):
		return commonerrors.NewGeminiConnectionFailedError(err)
	case errors.Is(err, generateanswer.ErrGenerationFailed):
		return commonerrors.NewGenerationFailedError(err.Error())
	default:
		return err
	}
}

func mapReportError(err error, path string) error {
	if errors.Is(err, reportresults.ErrResultWriteFailed) {
		return commonerrors.NewResultWriteFailedError(path, err)
	}
	return err
}
