package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrRulesetNotFound marks a --ruleset argument naming no ruleset of the
// selected account.
var ErrRulesetNotFound = errors.New("ruleset not found")

// RuleSet is a named, ordered list of rule invocations plus optional folder
// bindings. Loaded once per run and never mutated by the pipeline.
type RuleSet struct {
	Set      string            `yaml:"set"`
	Desc     string            `yaml:"desc,omitempty"`
	Active   bool              `yaml:"active"`
	Strategy string            `yaml:"strategy,omitempty"`
	Folders  map[string]string `yaml:"folders,omitempty"`
	Rule     []RuleRef         `yaml:"rule"`
}

// Folder returns the mailbox path bound to a logical folder name, or "" when
// the ruleset has no binding for it.
func (rs RuleSet) Folder(name string) string {
	return rs.Folders[name]
}

// RuleRef is one rule invocation inside a ruleset: either a bare rule name or
// a single-key mapping from the rule name to its parameters. Whether the name
// denotes a known rule is checked by the executor, not here.
type RuleRef struct {
	Name  string
	Pick  StringList
	Mark  StringList
	Move  MoveParams
	Match MatchParams
	Save  string
	Load  string
	Exit  *int
}

// MoveParams names the source and destination folders of a move rule. Both
// are optional: From defaults to the working folder, an empty To moves each
// message to the folder bound to its category.
type MoveParams struct {
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`
}

// MatchParams is the allow-list of a match rule.
type MatchParams struct {
	SenderEmail []MatchTerm `yaml:"senderEmail"`
}

// MatchTerm matches a sender either exactly (Is and Equals are synonyms kept
// from existing configs) or by domain suffix.
type MatchTerm struct {
	Is     string `yaml:"is,omitempty"`
	Equals string `yaml:"equals,omitempty"`
	Domain string `yaml:"domain,omitempty"`
}

// Matches reports whether the term matches the given sender address.
func (t MatchTerm) Matches(sender string) bool {
	if sender == "" {
		return false
	}
	if t.Is != "" && t.Is == sender {
		return true
	}
	if t.Equals != "" && t.Equals == sender {
		return true
	}
	return t.Domain != "" && len(sender) > len(t.Domain) && sender[len(sender)-len(t.Domain):] == t.Domain
}

func (r *RuleRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&r.Name)
	}
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: rule entry must be a name or a single-key mapping", value.Line)
	}

	key, params := value.Content[0], value.Content[1]
	r.Name = key.Value

	switch r.Name {
	case "select", "pick":
		return params.Decode(&r.Pick)
	case "mark":
		return params.Decode(&r.Mark)
	case "move":
		return params.Decode(&r.Move)
	case "match":
		return params.Decode(&r.Match)
	case "save":
		return params.Decode(&r.Save)
	case "load":
		return params.Decode(&r.Load)
	case "exit":
		return params.Decode(&r.Exit)
	default:
		// Parameters of parameterless rules, and of unknown rules that the
		// executor will reject, are ignored.
		return nil
	}
}

// StringList decodes either a YAML scalar or a sequence of scalars.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}
