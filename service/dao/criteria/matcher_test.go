package criteria

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/dao"
)

func TestMatch(t *testing.T) {
	snapshot := &proc.Snapshot{Ticks: 10, Stats: []proc.Stat{
		{Slot: 0, InUse: true, PID: 1},
		{Slot: 1, InUse: true, PID: 4},
	}}
	testCases := []struct {
		description string
		params      []*dao.Parameter
		expect      bool
	}{
		{description: "no parameters", expect: true},
		{description: "live pid", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, 4)}, expect: true},
		{description: "missing pid", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, 5)}, expect: false},
		{description: "ticks reached", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, uint64(10))}, expect: true},
		{description: "ticks not reached", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, 11)}, expect: false},
		{description: "both", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, 1), dao.NewParameter(dao.ParamMinTicks, 11)}, expect: false},
		{description: "unknown", params: []*dao.Parameter{dao.NewParameter("State", "run")}, expect: true},
		{description: "numeric string", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, "4")}, expect: true},
		{description: "negative ticks", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, -1)}, expect: false},
		{description: "unsupported type", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, 4.0)}, expect: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, Match(snapshot, tc.params), tc.description)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		params      []*dao.Parameter
		expectErr   string
	}{
		{description: "no parameters"},
		{description: "ints", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, 1), dao.NewParameter(dao.ParamMinTicks, uint64(3))}},
		{description: "numeric string", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, " 12 ")}},
		{description: "unknown name", params: []*dao.Parameter{dao.NewParameter("State", "run")}},
		{description: "negative ticks", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, -5)}, expectErr: "negative value -5"},
		{description: "negative pid string", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, "-2")}, expectErr: "negative value -2"},
		{description: "text", params: []*dao.Parameter{dao.NewParameter(dao.ParamPID, "four")}, expectErr: "not a number"},
		{description: "float", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, 1.5)}, expectErr: "unsupported value type float64"},
		{description: "overflow", params: []*dao.Parameter{dao.NewParameter(dao.ParamMinTicks, uint64(math.MaxUint64))}, expectErr: "out of range"},
	}
	for _, tc := range testCases {
		err := Validate(tc.params)
		if tc.expectErr == "" {
			assert.NoError(t, err, tc.description)
			continue
		}
		require.Error(t, err, tc.description)
		assert.Contains(t, err.Error(), tc.expectErr, tc.description)
		assert.True(t, errors.Is(err, dao.ErrInvalidParameter), tc.description)
	}
}
