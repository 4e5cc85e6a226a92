package analyzer

import (
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

type member struct {
	name string
	typ  string
	mods []string
}

func m(name, typ string, mods ...string) member {
	return member{name: name, typ: typ, mods: mods}
}

func newEntity(key string, kind domain.ClassOrInterfaceKind, fields ...member) *domain.ClassOrInterface {
	c := &domain.ClassOrInterface{
		Key:      key,
		Name:     key[strings.LastIndex(key, ".")+1:],
		Kind:     kind,
		FilePath: key + ".java",
		Fields:   map[string]*domain.Field{},
		Methods:  map[string]*domain.Method{},
	}
	for _, f := range fields {
		fieldKey := key + "/field/" + f.name
		c.Fields[fieldKey] = &domain.Field{
			TypedMember: domain.TypedMember{
				Key:       fieldKey,
				Name:      f.name,
				Type:      f.typ,
				Modifiers: f.mods,
				Position:  &domain.Position{StartLine: 1, EndLine: 1},
			},
			ClassOrInterfaceKey: key,
		}
	}
	return c
}

func newClass(key string, fields ...member) *domain.ClassOrInterface {
	return newEntity(key, domain.KindClass, fields...)
}

func addMethod(c *domain.ClassOrInterface, name string, params ...member) *domain.Method {
	methodKey := c.Key + "/method/" + name
	method := &domain.Method{
		Key:                 methodKey,
		Name:                name,
		ClassOrInterfaceKey: c.Key,
	}
	for _, p := range params {
		method.Parameters = append(method.Parameters, &domain.Parameter{
			TypedMember: domain.TypedMember{
				Key:  methodKey + "/param/" + p.name,
				Name: p.name,
				Type: p.typ,
			},
			MethodKey: methodKey,
		})
	}
	c.Methods[methodKey] = method
	return method
}

func personFields() []member {
	return []member{m("name", "String"), m("age", "int"), m("email", "String")}
}
