package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Id is the one identifier type for every entity. It is always written as a
// JSON number and read from either a number or a decimal string, so "42" and
// 42 name the same entity everywhere in the service.
type Id int64

type (
	UserId      = Id
	DashboardId = Id
	IssueId     = Id

	Email    = string
	Password = string

	DashboardName = string
	TeamName      = string

	IssueSubject     = string
	IssueDescription = string
)

// ParseId parses a decimal identifier. Surrounding whitespace is ignored.
func ParseId(s string) (Id, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return Id(v), nil
}

func (id Id) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id Id) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

func (id *Id) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseId(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(data))
	}
	parsed, err := ParseId(n.String())
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
