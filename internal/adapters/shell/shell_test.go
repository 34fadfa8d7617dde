package shell_test

import (
	"testing"

	"go.trai.ch/hashbang/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// quietLogger returns a logger mock that accepts any debug output.
func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	lg := mocks.NewMockLogger(ctrl)
	lg.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return lg
}
