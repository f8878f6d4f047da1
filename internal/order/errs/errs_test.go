package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Format("12a", "not a number"), KindFormat},
		{Extraction("[]", "empty list"), KindExtraction},
		{fmt.Errorf("create order: %w", Validation("deposit_amount", "exceeds total")), KindValidation},
		{&PrintIneligibleError{OrderCode: "ORD-1", Reason: "status NEW"}, KindPrintIneligible},
		{NotFound("order", "ORD-404"), KindNotFound},
		{&BatchError{Errors: []error{&PrintIneligibleError{OrderCode: "A"}}}, KindPrintIneligible},
		{&BatchError{Errors: []error{NotFound("order", "X"), &PrintIneligibleError{OrderCode: "B"}}}, KindPrintIneligible},
		{fmt.Errorf("print: %w", &BatchError{Errors: []error{NotFound("order", "X")}}), KindPrintIneligible},
		{errors.New("connection refused"), ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), tc.err.Error())
	}
}

func TestBatchErrorUnwrap(t *testing.T) {
	inner := &PrintIneligibleError{OrderCode: "B", Reason: "status CONFIRMED"}
	err := &BatchError{Errors: []error{NotFound("order", "A"), inner}}

	var pe *PrintIneligibleError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "B", pe.OrderCode)
	assert.Contains(t, err.Error(), "2 order(s) rejected")
}
