// internal/adapters/out/firestore/common/errors.go
package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domcommon "posbilling/internal/domain/common"
)

// MapError は Firestore（gRPC）のエラーをドメイン共通エラーに寄せます。
// 元のエラーは %w で保持したまま返す。
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, domcommon.ErrNotFound)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%s: %w: %w", op, domcommon.ErrAccessDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %w", op, domcommon.ErrUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domcommon.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
