package main

import (
	"github.com/arbor-ui/arbor/pkg/component"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// demoRegistry builds the registry the built-in commands run against: a
// small task list exercising state slots, nested components, and
// conditional children.
func demoRegistry() *component.Registry {
	reg := component.NewRegistry()

	reg.Register("Counter", func(c *component.Instance) *vdom.VNode {
		count, setCount := component.UseState(c, 0)
		return vdom.El("button",
			vdom.Props{"class": "counter", "onClick": func() { setCount(count + 1) }},
			vdom.Textf("clicked %d times", count),
		)
	})

	reg.Register("TaskList", func(c *component.Instance) *vdom.VNode {
		tasks, setTasks := component.UseState(c, []string{"write spec", "ship it"})
		showDone, setShowDone := component.UseState(c, false)

		return vdom.El("section", vdom.Props{"class": "tasks"},
			vdom.El("ul", vdom.Props{
				"onAdd": func(payload map[string]any) {
					if title, ok := payload["title"].(string); ok && title != "" {
						setTasks(append(append([]string{}, tasks...), title))
					}
				},
			},
				vdom.Range(tasks, func(task string, i int) *vdom.VNode {
					return vdom.El("li", nil, task)
				}),
			),
			vdom.El("label", vdom.Props{"onToggle": func() { setShowDone(!showDone) }},
				vdom.IfElse(showDone, vdom.Text("hide done"), vdom.Text("show done")),
			),
			vdom.If(showDone, vdom.Component("Counter", nil)),
		)
	})

	reg.Register("App", func(c *component.Instance) *vdom.VNode {
		return vdom.El("main", nil,
			vdom.El("h1", nil, "arbor demo"),
			vdom.Component("Counter", nil),
			vdom.Component("TaskList", nil),
		)
	})

	return reg
}
