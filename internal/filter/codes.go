package filter

import "regexp"

// Rule 是一条错误码分类规则：Pattern 命中消息的任意子串即归类为 Code。
type Rule struct {
	Code    string
	Pattern *regexp.Regexp
}

func rule(code, pattern string) Rule {
	return Rule{Code: code, Pattern: regexp.MustCompile(pattern)}
}

// rules 按优先级排列：多条模式可能同时命中同一条消息，先命中者生效。
// 模式故意写得宽松（子串匹配、不锚定整行），因为 mypy 各版本的措辞会变。
var rules = []Rule{
	// 定义类——类型注解本身的问题
	rule("invalid_syntax", `syntax error in type comment`),
	rule("wrong_number_of_args", `Type signature has `),
	rule("misplaced_annotation", `misplaced type annotation`),
	rule("not_defined", ` is not defined`),
	rule("invalid_type_arguments", `(".*" expects .* type argument)|(Optional.* must have exactly one type argument)|(is not subscriptable)`),
	rule("generator_expected", `The return type of a generator function should be `),
	// 重载与重复定义
	rule("orphaned_overload", `Overloaded .* will never be matched`),
	rule("already_defined", `already defined`),
	// 签名与函数体不一致
	rule("return_expected", `Return value expected`),
	rule("return_not_expected", `No return value expected`),
	rule("incompatible_return", `Incompatible return value type`),
	rule("incompatible_yield", `Incompatible types in "yield"`),
	rule("incompatible_arg", `Argument .* has incompatible type`),
	rule("incompatible_default_arg", `Incompatible default for argument`),
	// 签名/类与父类不兼容
	rule("incompatible_subclass_signature", `Signature .* incompatible with supertype`),
	rule("incompatible_subclass_return", `Return type .* incompatible with supertype`),
	rule("incompatible_subclass_arg", `Argument .* incompatible with supertype`),
	rule("incompatible_subclass_attr", `Incompatible types in assignment \(expression has type ".*", base class ".*" defined the type as ".*"\)`),
	// 其他
	rule("need_annotation", `Need type annotation`),
	rule("missing_module", `Cannot find module `),
	// 使用类——Optional/None 的特例要排在通用规则前面
	rule("no_attr_none_case", `Item "None" of ".*" has no attribute`),
	rule("incompatible_subclass_attr_none_case", `Incompatible types in assignment \(expression has type ".*", base class ".*" defined the type as "None"\)`),
	rule("incompatible_list_comprehension", `List comprehension has incompatible type`),
	rule("cannot_assign_to_method", `Cannot assign to a method`),
	rule("not_enough_arguments", `Too few arguments`),
	rule("not_callable", ` not callable`),
	rule("no_attr", `.* has no attribute`),
	rule("not_indexable", ` not indexable`),
	rule("invalid_index", `Invalid index type`),
	rule("not_iterable", ` not iterable`),
	rule("not_assignable_by_index", `Unsupported target for indexed assignment`),
	rule("no_matching_overload", `No overload variant of .* matches argument type`),
	rule("incompatible_assignment", `Incompatible types in assignment`),
	rule("invalid_return_assignment", `does not return a value`),
	rule("unsupported_operand", `Unsupported .*operand `),
	rule("abc_with_abstract_attr", `Cannot instantiate abstract class .* with abstract attribute`),
}

// Rules 返回完整的分类规则表（只读，启动时构建一次）。
func Rules() []Rule {
	return rules
}

// Classify 返回第一条命中 msg 的规则的错误码；没有规则命中时 ok 为 false。
func Classify(msg string) (code string, ok bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(msg) {
			return r.Code, true
		}
	}
	return "", false
}

// Codes 返回已知错误码词表，供配置校验与 --list 使用。
func Codes() map[string]struct{} {
	out := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		out[r.Code] = struct{}{}
	}
	return out
}
