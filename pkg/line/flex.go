package line

// Minimal Flex Message component set used by the notification cards.

type FlexBubble struct {
	Type   string   `json:"type"`
	Header *FlexBox `json:"header,omitempty"`
	Body   *FlexBox `json:"body,omitempty"`
	Footer *FlexBox `json:"footer,omitempty"`
}

type FlexBox struct {
	Type            string        `json:"type"`
	Layout          string        `json:"layout"`
	Contents        []interface{} `json:"contents"`
	Spacing         string        `json:"spacing,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
}

type FlexText struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Size   string `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
	Color  string `json:"color,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
	Flex   int    `json:"flex,omitempty"`
}

type FlexButton struct {
	Type   string     `json:"type"`
	Style  string     `json:"style,omitempty"`
	Color  string     `json:"color,omitempty"`
	Action FlexAction `json:"action"`
}

type FlexAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri,omitempty"`
}

// CardField is one "label: value" row of a card body.
type CardField struct {
	Label string
	Value string
}

// Card describes a notification card: colored title bar, field rows and an
// optional link button.
type Card struct {
	Title       string
	HeaderColor string
	Fields      []CardField
	Note        string
	ButtonLabel string
	ButtonURL   string
}

const (
	ColorBlue  = "#1E88E5"
	ColorGreen = "#2E7D32"
	ColorRed   = "#C62828"
	ColorGrey  = "#555555"
)

func (c Card) Bubble() FlexBubble {
	headerColor := c.HeaderColor
	if headerColor == "" {
		headerColor = ColorBlue
	}

	bubble := FlexBubble{
		Type: "bubble",
		Header: &FlexBox{
			Type:            "box",
			Layout:          "vertical",
			BackgroundColor: headerColor,
			Contents: []interface{}{
				FlexText{Type: "text", Text: c.Title, Weight: "bold", Color: "#FFFFFF", Size: "lg", Wrap: true},
			},
		},
	}

	rows := make([]interface{}, 0, len(c.Fields)+1)
	for _, f := range c.Fields {
		if f.Value == "" {
			continue
		}
		rows = append(rows, FlexBox{
			Type:    "box",
			Layout:  "baseline",
			Spacing: "sm",
			Contents: []interface{}{
				FlexText{Type: "text", Text: f.Label, Size: "sm", Color: "#AAAAAA", Flex: 2},
				FlexText{Type: "text", Text: f.Value, Size: "sm", Color: ColorGrey, Flex: 5, Wrap: true},
			},
		})
	}
	if c.Note != "" {
		rows = append(rows, FlexText{Type: "text", Text: c.Note, Size: "sm", Wrap: true})
	}
	if len(rows) > 0 {
		bubble.Body = &FlexBox{Type: "box", Layout: "vertical", Spacing: "md", Contents: rows}
	}

	if c.ButtonURL != "" {
		label := c.ButtonLabel
		if label == "" {
			label = "Open"
		}
		bubble.Footer = &FlexBox{
			Type:   "box",
			Layout: "vertical",
			Contents: []interface{}{
				FlexButton{
					Type:   "button",
					Style:  "primary",
					Color:  headerColor,
					Action: FlexAction{Type: "uri", Label: label, URI: c.ButtonURL},
				},
			},
		}
	}

	return bubble
}

// Message wraps the card into a flex message with alt text for clients that
// cannot render flex.
func (c Card) Message(altText string) Message {
	if altText == "" {
		altText = c.Title
	}
	return NewFlexMessage(altText, c.Bubble())
}
