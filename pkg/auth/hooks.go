package auth

// hookStage orders completion hooks. Lower stages run first.
type hookStage uint8

const (
	stageTeardown hookStage = iota
	stageRegistry
	stageCaller
)

func (s hookStage) String() string {
	switch s {
	case stageTeardown:
		return "teardown"
	case stageRegistry:
		return "registry"
	case stageCaller:
		return "caller"
	default:
		return "unknown"
	}
}

type completionHook struct {
	stage hookStage
	fn    CompletionFunc
}

// hookList runs completion hooks by stage, then in insertion order.
type hookList []completionHook

func (l *hookList) add(stage hookStage, fn CompletionFunc) {
	if fn == nil {
		return
	}
	h := completionHook{stage: stage, fn: fn}

	// Insert after the last hook of the same or an earlier stage.
	i := len(*l)
	for i > 0 && (*l)[i-1].stage > stage {
		i--
	}
	*l = append(*l, completionHook{})
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = h
}

func (l hookList) run(deviceID string, res Result) {
	for _, h := range l {
		h.fn(deviceID, res)
	}
}
