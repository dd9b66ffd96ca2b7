package handler

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"playmate_server/internal/service/stats"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 全局翻译器，HandleParamError 使用
var Trans ut.Translator

// 自定义规则的提示文案
var minWordsText = map[string]string{
	"en": "{0} must contain at least {1} words",
	"zh": "{0}至少需要{1}个单词",
}

// InitTrans 初始化校验器和翻译器
// locale 取 "zh" 或 "en"，其他值按英文处理
//   - 报错字段使用 json tag，与前端传参一致
//   - 注册自定义规则 minwords=N
func InitTrans(locale string) error {
	// Gin v1.9+ 中 binding.Validator 可能为 nil
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(jsonTagName)
	if err := v.RegisterValidation("minwords", validateMinWords); err != nil {
		return err
	}

	// 第一个参数是 fallback 语言
	uni := ut.New(en.New(), zh.New(), en.New())
	if Trans, ok = uni.GetTranslator(locale); !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	var err error
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, Trans)
	} else {
		locale = "en"
		err = en_translations.RegisterDefaultTranslations(v, Trans)
	}
	if err != nil {
		return err
	}
	return registerMinWordsTranslation(v, minWordsText[locale])
}

// jsonTagName 字段名取 json tag，"-" 表示忽略
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// validateMinWords 文本按空白切分后至少 N 个词
func validateMinWords(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return stats.CountWords(fl.Field().String()) >= n
}

func registerMinWordsTranslation(v *validator.Validate, text string) error {
	return v.RegisterTranslation("minwords", Trans,
		func(ut ut.Translator) error {
			return ut.Add("minwords", text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("minwords", fe.Field(), fe.Param())
			return t
		},
	)
}

// RemoveTopStruct 去除提示信息中的结构体名（如 "RegisterRequest.email" -> "email"）
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string, len(fields))
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// defaultValidator 实现 binding.StructValidator
type defaultValidator struct {
	validator *validator.Validate
}

func (v *defaultValidator) ValidateStruct(obj any) error {
	return v.validator.Struct(obj)
}

func (v *defaultValidator) Engine() any {
	return v.validator
}
