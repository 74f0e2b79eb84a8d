package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/John-Robertt/latekan/internal/domain"
)

// PositionValue 是配置中的单元格位置：既可以写 A1 记法（"B7"），也可以写 0 基的 {row, col}。
type PositionValue struct {
	domain.Position
}

// ParseCellName 把 A1 记法转换为 0 基位置（"B7" → row 6, col 1）。
func ParseCellName(name string) (domain.Position, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("セル位置 %q が不正です：%w", name, err)
	}
	return domain.Position{Row: row - 1, Col: col - 1}, nil
}

func (p *PositionValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		pos, err := ParseCellName(s)
		if err != nil {
			return err
		}
		p.Position = pos
		return nil
	}
	var raw domain.Position
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("セル位置は \"B7\" か {\"row\":6,\"col\":1} で指定してください：%w", err)
	}
	return p.set(raw)
}

func (p *PositionValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		pos, err := ParseCellName(node.Value)
		if err != nil {
			return err
		}
		p.Position = pos
		return nil
	}
	var raw domain.Position
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("セル位置は \"B7\" か {row: 6, col: 1} で指定してください：%w", err)
	}
	return p.set(raw)
}

func (p *PositionValue) set(raw domain.Position) error {
	if raw.Row < 0 || raw.Col < 0 {
		return fmt.Errorf("セル位置 %s は 0 以上で指定してください", raw)
	}
	p.Position = raw
	return nil
}
