package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// StringArray 以 JSON 数组形式落库的字符串切片（标准答案、学生作答等）
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported column type %T for StringArray", value)
	}
}

// ChosenValue 客户端提交的单题作答，JSON 中允许 string、string 数组或 null。
// 裸字符串统一包装为单元素数组。
type ChosenValue []string

func (v *ChosenValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = ChosenValue{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*v = ChosenValue(many)
		return nil
	}
	return errors.New("chosen value must be a string, an array of strings or null")
}
