package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// attr is one rendered attribute. Boolean attributes render bare.
type attr struct {
	name    string
	value   string
	boolean bool
}

func a(name, value string) attr { return attr{name: name, value: value} }

func flag(name string) attr { return attr{name: name, boolean: true} }

// link is a URL attribute sanitized by templ before escaping.
func link(name, target string) attr { return a(name, string(templ.URL(target))) }

// when returns component if cond holds and renders nothing otherwise.
func when(cond bool, component templ.Component) templ.Component {
	if !cond {
		return templ.NopComponent
	}
	return component
}

// text renders an escaped text node.
func text(value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}

// group renders components one after another.
func group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// children renders the component handed down through templ.WithChildren.
func children() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		inner := templ.GetChildren(ctx)
		return inner.Render(templ.ClearChildren(ctx), w)
	})
}

// el renders <tag attrs>children</tag>.
func el(tag string, attrs []attr, content ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openTag(w, tag, attrs); err != nil {
			return err
		}
		if err := group(content...).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// void renders an element without content or closing tag, such as input.
func void(tag string, attrs ...attr) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return openTag(w, tag, attrs)
	})
}

// raw writes trusted markup.
func raw(markup string) templ.Component {
	return templ.Raw(markup)
}

func openTag(w io.Writer, tag string, attrs []attr) error {
	out := "<" + tag
	for _, at := range attrs {
		if at.boolean {
			out += " " + at.name
			continue
		}
		out += " " + at.name + `="` + templ.EscapeString(at.value) + `"`
	}
	_, err := io.WriteString(w, out+">")
	return err
}

func attrs(list ...attr) []attr { return list }
