package rules

import (
	"errors"
	"fmt"
)

// Kind enumerates the rule registry. Rule names from configuration are
// resolved here; a name outside this closed set is a configuration error
// that aborts the ruleset.
type Kind int

const (
	KindSelect Kind = iota
	KindParse
	KindClassify
	KindMatch
	KindMark
	KindMove
	KindSave
	KindLoad
	KindDrop
	KindCheck
	KindExit
	KindDispose
)

var ErrUnknownRule = errors.New("unknown rule")

// ParseKind resolves a configured rule name. "pick" is the historical alias
// for select kept so existing rulesets stay valid.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "select", "pick":
		return KindSelect, nil
	case "parse":
		return KindParse, nil
	case "classify":
		return KindClassify, nil
	case "match":
		return KindMatch, nil
	case "mark":
		return KindMark, nil
	case "move":
		return KindMove, nil
	case "save":
		return KindSave, nil
	case "load":
		return KindLoad, nil
	case "drop":
		return KindDrop, nil
	case "check":
		return KindCheck, nil
	case "exit":
		return KindExit, nil
	case "dispose":
		return KindDispose, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
}

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindParse:
		return "parse"
	case KindClassify:
		return "classify"
	case KindMatch:
		return "match"
	case KindMark:
		return "mark"
	case KindMove:
		return "move"
	case KindSave:
		return "save"
	case KindLoad:
		return "load"
	case KindDrop:
		return "drop"
	case KindCheck:
		return "check"
	case KindExit:
		return "exit"
	case KindDispose:
		return "dispose"
	default:
		return fmt.Sprintf("rule(%d)", int(k))
	}
}

// handler maps each kind to its implementation at compile time.
func (k Kind) handler() handlerFunc {
	switch k {
	case KindSelect:
		return runSelect
	case KindParse:
		return runParse
	case KindClassify:
		return runClassify
	case KindMatch:
		return runMatch
	case KindMark:
		return runMark
	case KindMove:
		return runMove
	case KindSave:
		return runSave
	case KindLoad:
		return runLoad
	case KindDrop:
		return runDrop
	case KindCheck:
		return runCheck
	case KindExit:
		return runExit
	case KindDispose:
		return runDispose
	default:
		return nil
	}
}
