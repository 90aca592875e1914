package core

// CategoryStyle is the display styling attached to a breakdown entry.
type CategoryStyle struct {
	Color string
	Icon  string
}

// DefaultStyle is applied to categories missing from the lookup tables.
var DefaultStyle = CategoryStyle{Color: "bg-gray-500", Icon: "📋"}

var categoryStyles = map[string]CategoryStyle{
	"Salary":        {Color: "bg-emerald-500", Icon: "💰"},
	"Freelance":     {Color: "bg-cyan-500", Icon: "💻"},
	"Investment":    {Color: "bg-lime-500", Icon: "📈"},
	"Gift":          {Color: "bg-rose-500", Icon: "🎁"},
	"Food":          {Color: "bg-blue-500", Icon: "🍔"},
	"Transport":     {Color: "bg-green-500", Icon: "🚗"},
	"Transportation": {Color: "bg-green-500", Icon: "🚗"},
	"Housing":       {Color: "bg-purple-500", Icon: "🏠"},
	"Utilities":     {Color: "bg-yellow-500", Icon: "⚡"},
	"Entertainment": {Color: "bg-pink-500", Icon: "🎬"},
	"Shopping":      {Color: "bg-orange-500", Icon: "🛒"},
	"Healthcare":    {Color: "bg-red-500", Icon: "🏥"},
	"Education":     {Color: "bg-indigo-500", Icon: "📚"},
	"Personal":      {Color: "bg-teal-500", Icon: "👤"},
	"Other":         {Color: "bg-gray-500", Icon: "📋"},
}

// StyleFor resolves the color and glyph for a category. It is total:
// unknown categories get DefaultStyle rather than a missing lookup.
func StyleFor(category string) CategoryStyle {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return DefaultStyle
}
