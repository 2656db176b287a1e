package domain

import (
	"github.com/futarchy-fi/futarchy-orchestrator/internal/apperror"
)

// Sentinels for errors.Is. Operations return fresh errors with context.
var (
	ErrPoolNotFound          = apperror.New(apperror.CodePoolNotFound)
	ErrInsufficientLiquidity = apperror.New(apperror.CodeInsufficientLiquidity)
	ErrTargetUnreachable     = apperror.New(apperror.CodeTargetUnreachable)
	ErrInvalidTarget         = apperror.New(apperror.CodeInvalidTarget)
)

func insufficientLiquidity(context string) error {
	return apperror.Unprocessable(apperror.CodeInsufficientLiquidity, context)
}

func targetUnreachable(context string) error {
	return apperror.Unprocessable(apperror.CodeTargetUnreachable, context)
}
