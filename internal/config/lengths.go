package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
	"gopkg.in/yaml.v3"
)

var errLengthsFormat = errors.New("文字数パターンは整数で入力してください（例: 10,5,4,3）")

// ParseLengths 解析逗号分隔的文字数模式，如 "10,5,4,3"。
//
// 规则：
// - 先把全角数字/逗号收窄为半角（“１０，５”等价于“10,5”）
// - 空 token 跳过（"10,,5" → [10 5]）
// - 任一 token 不是整数则整体失败；结果为空也视为失败
// - 0 和负数照样接受，生成阶段会得到空的案列表
func ParseLengths(raw string) ([]int, error) {
	s := width.Narrow.String(raw)
	s = strings.ReplaceAll(s, "、", ",")

	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &Error{Code: ErrCodeLengthsInvalid, Err: fmt.Errorf("%w：%q", errLengthsFormat, tok)}
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, &Error{Code: ErrCodeLengthsInvalid, Err: errLengthsFormat}
	}
	return out, nil
}

// LengthList 允许配置文件以字符串（"10,5,4,3"）或整数列表（[10, 5, 4, 3]）书写 lengths。
// 这里只保存原始文本，校验统一在 ParseLengths 里做。
type LengthList struct {
	Raw string
	Set bool
}

func (l *LengthList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		l.Raw, l.Set = s, true
		return nil
	}
	var xs []int
	if err := json.Unmarshal(b, &xs); err != nil {
		return fmt.Errorf("lengths は文字列または整数の配列で指定してください：%w", err)
	}
	l.Raw, l.Set = joinInts(xs), true
	return nil
}

func (l *LengthList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		l.Raw, l.Set = node.Value, true
		return nil
	case yaml.SequenceNode:
		var xs []int
		if err := node.Decode(&xs); err != nil {
			return fmt.Errorf("lengths は文字列または整数の配列で指定してください：%w", err)
		}
		l.Raw, l.Set = joinInts(xs), true
		return nil
	default:
		return fmt.Errorf("lengths は文字列または整数の配列で指定してください（line %d）", node.Line)
	}
}

func joinInts(xs []int) string {
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		parts = append(parts, strconv.Itoa(x))
	}
	return strings.Join(parts, ",")
}
