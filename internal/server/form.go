package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/John-Robertt/latekan/internal/config"
	"github.com/John-Robertt/latekan/internal/domain"
)

// ideaForm 是 POST /api/v1/ideas 的表单字段（multipart/form-data）。
type ideaForm struct {
	Lengths    string `validate:"max=200"`
	Writer     string `validate:"max=100"`
	ShortTitle string `validate:"max=100"`
	Format     string `validate:"omitempty,oneof=json csv"`

	Sub   string `validate:"omitempty,oneof=0 1 true false on off"`
	Dub   string `validate:"omitempty,oneof=0 1 true false on off"`
	New   string `validate:"omitempty,oneof=0 1 true false on off"`
	Final string `validate:"omitempty,oneof=0 1 true false on off"`
}

// formError 是表单阶段的错误（带 error_code 与 HTTP 状态码）。
type formError struct {
	Code   string
	Status int
	Msg    string
}

func (e *formError) Error() string { return e.Code + "：" + e.Msg }

func readIdeaForm(r *http.Request) ideaForm {
	v := func(key string) string { return strings.TrimSpace(r.FormValue(key)) }
	format := v("format")
	if format == "" {
		format = strings.TrimSpace(r.URL.Query().Get("format"))
	}
	return ideaForm{
		Lengths:    v("lengths"),
		Writer:     r.FormValue("writer"),
		ShortTitle: v("short_title"),
		Format:     strings.ToLower(format),
		Sub:        strings.ToLower(v("sub")),
		Dub:        strings.ToLower(v("dub")),
		New:        strings.ToLower(v("new")),
		Final:      strings.ToLower(v("final")),
	}
}

// toRequest 校验表单并与服务端默认值合并：表单未填写的字段沿用 base。
func (f ideaForm) toRequest(v *validator.Validate, base domain.Request) (domain.Request, error) {
	if err := v.Struct(f); err != nil {
		return domain.Request{}, &formError{Code: "form_invalid", Status: http.StatusBadRequest, Msg: describeValidation(err)}
	}

	req := base
	req.Layout = base.Layout.Clone()
	req.Lengths = append([]int(nil), base.Lengths...)

	if f.Lengths != "" {
		lengths, err := config.ParseLengths(f.Lengths)
		if err != nil {
			return domain.Request{}, &formError{Code: config.Code(err), Status: http.StatusBadRequest, Msg: err.Error()}
		}
		req.Lengths = lengths
	}
	if f.Writer != "" {
		req.Writer = f.Writer
	}
	if f.ShortTitle != "" {
		req.ShortTitle = f.ShortTitle
	}
	setFlag(&req.Marks.Subtitled, f.Sub)
	setFlag(&req.Marks.Dubbed, f.Dub)
	setFlag(&req.Marks.New, f.New)
	setFlag(&req.Marks.Final, f.Final)
	return req, nil
}

func setFlag(dst *bool, raw string) {
	switch raw {
	case "1", "true", "on":
		*dst = true
	case "0", "false", "off":
		*dst = false
	}
}

func describeValidation(err error) string {
	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	return fmt.Sprintf("項目 %s が不正です（%s %s）", fe.Field(), fe.Tag(), fe.Param())
}
