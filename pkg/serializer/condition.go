package serializer

import (
	"github.com/lk2023060901/garden-serializer/pkg/util/merr"
)

// condition 至多设置其中一项；都未设置时取调用方给出的默认值。
type condition struct {
	plain     func(s *Instance) bool
	valued    func(s *Instance, value any) bool
	predicate string
}

func (c condition) isZero() bool {
	return c.plain == nil && c.valued == nil && c.predicate == ""
}

// evaluate 计算条件。value 由调用方保证只计算一次。
func (c condition) evaluate(s *Instance, value func() (any, error), def bool) (bool, error) {
	switch {
	case c.plain != nil:
		return c.plain(s), nil
	case c.valued != nil:
		v, err := value()
		if err != nil {
			return false, err
		}
		return c.valued(s, v), nil
	case c.predicate != "":
		fn, ok := s.def.predicates[c.predicate]
		if !ok {
			return false, merr.WrapErrPredicateNotFound(s.def.name, c.predicate)
		}
		return fn(s), nil
	default:
		return def, nil
	}
}
