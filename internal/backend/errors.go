package backend

import (
	"context"
	stderrors "errors"

	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

var accessDeniedCodes = map[string]bool{
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"UnauthorizedOperation":       true,
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"InvalidSignatureException":   true,
	"SignatureDoesNotMatch":       true,
	"MissingAuthenticationToken":  true,
	"KMSAccessDeniedException":    true,
}

var throttleCodes = map[string]bool{
	"Throttling":                true,
	"ThrottlingException":       true,
	"ThrottledException":        true,
	"TooManyRequestsException":  true,
	"RequestLimitExceeded":      true,
	"RequestThrottled":          true,
	"RequestThrottledException": true,
	"SlowDown":                  true,
}

var notFoundCodes = map[string]bool{
	"ParameterNotFound":         true,
	"ParameterVersionNotFound":  true,
	"ResourceNotFoundException": true,
}

// classify maps an SDK failure for name onto the error taxonomy. Errors
// already classified pass through unchanged.
func classify(kind Kind, name string, err error) error {
	var se *errors.SecretError
	if stderrors.As(err, &se) {
		return se
	}

	noun := "secret"
	if kind == KindSSM {
		noun = "parameter"
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.BackendFailure, name, err, "%s request for %q timed out", kind, name)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.BackendFailure, name, err, "%s request for %q was cancelled", kind, name)
	}

	var (
		paramNotFound   *ssmtypes.ParameterNotFound
		versionNotFound *ssmtypes.ParameterVersionNotFound
		invalidKey      *ssmtypes.InvalidKeyId
		resNotFound     *smtypes.ResourceNotFoundException
		decryptFailure  *smtypes.DecryptionFailure
	)
	switch {
	case stderrors.As(err, &paramNotFound), stderrors.As(err, &versionNotFound), stderrors.As(err, &resNotFound):
		return errors.Wrap(errors.NotFound, name, err, "%s %q not found", noun, name)
	case stderrors.As(err, &invalidKey):
		return errors.Wrap(errors.AccessDenied, name, err, "cannot decrypt %s %q: KMS key is invalid or not accessible", noun, name)
	case stderrors.As(err, &decryptFailure):
		return errors.Wrap(errors.AccessDenied, name, err, "cannot decrypt %s %q: %s", noun, name, decryptFailure.ErrorMessage())
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case accessDeniedCodes[code]:
			return errors.Wrap(errors.AccessDenied, name, err, "access denied to %s %q (%s)", noun, name, code)
		case throttleCodes[code]:
			return errors.Wrap(errors.Throttled, name, err, "request for %s %q was throttled (%s)", noun, name, code)
		case notFoundCodes[code]:
			return errors.Wrap(errors.NotFound, name, err, "%s %q not found", noun, name)
		}
		return errors.Wrap(errors.BackendFailure, name, err, "%s %q: %s: %s", noun, name, code, apiErr.ErrorMessage())
	}

	return errors.Wrap(errors.BackendFailure, name, err, "%s %q: %v", noun, name, err)
}
