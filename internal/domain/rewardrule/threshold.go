package rewardrule

import (
	"context"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// thresholdRule passes when a numeric user attribute reaches a minimum value.
// It covers achievement-style rewards such as sales or attendance targets.
type thresholdRule struct {
	Attribute string  `mapstructure:"attribute" structs:"attribute"`
	Min       float64 `mapstructure:"min" structs:"min"`
}

func newThresholdRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*thresholdRule, error) {
	rule := thresholdRule{}
	if err := mapstructure.WeakDecode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse && rule.Attribute == "" {
		return nil, errorx.New(errorx.BadRequest, "Threshold rule requires an attribute")
	}

	return &rule, nil
}

func (r *thresholdRule) Fits(ec *EvalContext, env *Environment) (bool, error) {
	_, ok := ec.Store()[r.Attribute]
	return ok, nil
}

func (r *thresholdRule) Evaluate(
	ctx context.Context, ec *EvalContext, env *Environment,
) (bool, error) {
	value, ok := toFloat(ec.Store()[r.Attribute])
	if !ok {
		return false, nil
	}

	return value >= r.Min, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}

	return 0, false
}
