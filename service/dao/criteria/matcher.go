package criteria

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/viant/kproc/model/proc"
	"github.com/viant/kproc/service/dao"
)

// Validate checks parameter values: pids and tick counts must be
// non-negative integers or numeric strings.
func Validate(parameters []*dao.Parameter) error {
	for _, param := range parameters {
		if param == nil {
			continue
		}
		switch param.Name {
		case dao.ParamPID, dao.ParamMinTicks:
			value, err := toInt(param.Value)
			if err != nil {
				return errors.Wrapf(err, "parameter %v", param.Name)
			}
			if value < 0 {
				return errors.Wrapf(dao.ErrInvalidParameter, "parameter %v: negative value %d", param.Name, value)
			}
		}
	}
	return nil
}

// Match reports whether snapshot satisfies every parameter. Unknown
// parameters match everything; values Validate rejects match nothing.
func Match(snapshot *proc.Snapshot, parameters []*dao.Parameter) bool {
	for _, param := range parameters {
		if param == nil {
			continue
		}
		switch param.Name {
		case dao.ParamPID:
			pid, err := toInt(param.Value)
			if err != nil || pid < 0 {
				return false
			}
			if _, found := snapshot.Lookup(pid); !found {
				return false
			}
		case dao.ParamMinTicks:
			ticks, err := toInt(param.Value)
			if err != nil || ticks < 0 {
				return false
			}
			if snapshot.Ticks < uint64(ticks) {
				return false
			}
		}
	}
	return true
}

func toInt(v interface{}) (int, error) {
	switch actual := v.(type) {
	case int:
		return actual, nil
	case int32:
		return int(actual), nil
	case int64:
		return int(actual), nil
	case uint:
		if uint64(actual) > math.MaxInt {
			return 0, errors.Wrapf(dao.ErrInvalidParameter, "value %d out of range", actual)
		}
		return int(actual), nil
	case uint64:
		if actual > math.MaxInt {
			return 0, errors.Wrapf(dao.ErrInvalidParameter, "value %d out of range", actual)
		}
		return int(actual), nil
	case string:
		ret, err := strconv.Atoi(strings.TrimSpace(actual))
		if err != nil {
			return 0, errors.Wrapf(dao.ErrInvalidParameter, "value %q is not a number", actual)
		}
		return ret, nil
	}
	return 0, errors.Wrapf(dao.ErrInvalidParameter, "unsupported value type %T", v)
}
