package mockapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/alex-user-go/hotelview/internal/mockapi"
)

func TestModule_Validates(t *testing.T) {
	t.Setenv("BOOKINGAPI_PORT", "0")
	require.NoError(t, fx.ValidateApp(mockapi.Module, fx.NopLogger))
}
