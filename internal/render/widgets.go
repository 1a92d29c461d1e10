package render

import (
	"bytes"
	"fmt"
	"strings"
)

func renderText(r *Renderer, settings map[string]interface{}) string {
	content := stringSetting(settings, "content")
	if content == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		// Escaped plain text is still better than a broken page.
		buf.Reset()
		buf.WriteString("<p>" + esc(content) + "</p>")
	}
	align := stringSetting(settings, "align")
	return fmt.Sprintf(`<div class="ck-text" style="text-align:%s">%s</div>`, esc(align), buf.String())
}

func renderHeading(r *Renderer, settings map[string]interface{}) string {
	title := stringSetting(settings, "title")
	if title == "" {
		return ""
	}
	tag := stringSetting(settings, "tag")
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
	default:
		tag = "h2"
	}
	return fmt.Sprintf(`<%s class="ck-heading" style="color:%s;text-align:%s">%s</%s>`,
		tag, esc(stringSetting(settings, "color")), esc(stringSetting(settings, "align")), esc(title), tag)
}

func renderButton(r *Renderer, settings map[string]interface{}) string {
	label := stringSetting(settings, "label")
	if label == "" {
		return ""
	}
	target := ""
	if boolSetting(settings, "new_tab") {
		target = ` target="_blank" rel="noopener"`
	}
	return fmt.Sprintf(`<a class="ck-button ck-button-%s" href="%s"%s>%s</a>`,
		esc(stringSetting(settings, "style")), esc(stringSetting(settings, "url")), target, esc(label))
}

func renderImage(r *Renderer, settings map[string]interface{}) string {
	src := stringSetting(settings, "src")
	if src == "" {
		return ""
	}
	width := numberSetting(settings, "width", 100)
	img := fmt.Sprintf(`<img class="ck-image" src="%s" alt="%s" style="width:%s%%">`,
		esc(src), esc(stringSetting(settings, "alt")), formatNumber(width))
	if link := stringSetting(settings, "link"); link != "" {
		return fmt.Sprintf(`<a href="%s">%s</a>`, esc(link), img)
	}
	return img
}

func renderVideo(r *Renderer, settings map[string]interface{}) string {
	url := stringSetting(settings, "url")
	if url == "" {
		return ""
	}
	attrs := []string{"controls"}
	if boolSetting(settings, "autoplay") {
		attrs = append(attrs, "autoplay", "muted")
	}
	if boolSetting(settings, "loop") {
		attrs = append(attrs, "loop")
	}
	return fmt.Sprintf(`<video class="ck-video" src="%s" %s></video>`, esc(url), strings.Join(attrs, " "))
}

func renderColumns(r *Renderer, settings map[string]interface{}) string {
	gap := numberSetting(settings, "gap", 16)
	return fmt.Sprintf(`<div class="ck-columns" style="gap:%spx"></div>`, formatNumber(gap))
}

func renderCourseCard(r *Renderer, settings map[string]interface{}) string {
	courseID := stringSetting(settings, "course_id")
	if courseID == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="ck-course-card" data-course="%s">`, esc(courseID)))
	if boolSetting(settings, "show_excerpt") {
		sb.WriteString(`<div class="ck-course-card-excerpt"></div>`)
	}
	if boolSetting(settings, "show_teacher") {
		sb.WriteString(`<div class="ck-course-card-teacher"></div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderCourseFilter(r *Renderer, settings map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<form class="ck-course-filter" data-taxonomy="%s">`, esc(stringSetting(settings, "taxonomy"))))
	if boolSetting(settings, "show_search") {
		sb.WriteString(`<input type="search" name="q" class="ck-course-filter-search">`)
	}
	sb.WriteString(`<select name="term" class="ck-course-filter-terms"></select></form>`)
	return sb.String()
}

func renderCourseRegister(r *Renderer, settings map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString(`<form class="ck-course-register" method="post">`)
	if heading := stringSetting(settings, "heading"); heading != "" {
		sb.WriteString(fmt.Sprintf(`<h3>%s</h3>`, esc(heading)))
	}
	sb.WriteString(`<input type="text" name="name" required><input type="email" name="email" required>`)
	sb.WriteString(fmt.Sprintf(`<button type="submit">%s</button>`, esc(stringSetting(settings, "button_label"))))
	sb.WriteString(fmt.Sprintf(`<div class="ck-course-register-success" hidden>%s</div>`, esc(stringSetting(settings, "success_message"))))
	sb.WriteString(`</form>`)
	return sb.String()
}
