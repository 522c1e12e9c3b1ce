package branding

// SampleJSON is a complete example configuration, served by the API and
// written by the CLI --generate-config flag. It round-trips through Load.
const SampleJSON = `{
  "title": "My Document",
  "author": "Author Name",
  "company": "Company Name",
  "page": {
    "width": 8.5,
    "height": 11,
    "margin_top": 1,
    "margin_bottom": 1,
    "margin_left": 1,
    "margin_right": 1
  },
  "body_font": {
    "name": "Calibri",
    "size": 11,
    "color": "#000000"
  },
  "heading1": {
    "font_name": "Calibri",
    "font_size": 24,
    "color": "#2F5496",
    "bold": true,
    "space_before": 18,
    "space_after": 12
  },
  "heading2": {
    "font_name": "Calibri",
    "font_size": 20,
    "color": "#2F5496",
    "bold": true,
    "space_before": 16,
    "space_after": 10
  },
  "heading3": {
    "font_name": "Calibri",
    "font_size": 16,
    "color": "#2F5496",
    "bold": true,
    "space_before": 14,
    "space_after": 8
  },
  "code_font": {
    "name": "Courier New",
    "size": 10
  },
  "code_background_color": "#F5F5F5",
  "link_color": "#0563C1",
  "link_underline": true,
  "header": {
    "left_text": "Company Name",
    "text": "Document Title",
    "right_text": "",
    "font_name": "Calibri",
    "font_size": 9,
    "color": "#808080"
  },
  "footer": {
    "left_text": "Confidential",
    "font_name": "Calibri",
    "font_size": 9,
    "color": "#808080",
    "include_page_number": true,
    "page_number_position": "right"
  }
}
`
