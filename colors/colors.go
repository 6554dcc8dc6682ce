package colors

import "github.com/fatih/color"

var Red = color.New(color.FgRed).SprintFunc()
