package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"sharePreview/internal/models"
	"sharePreview/internal/service"
)

var pageLanguages = []language.Tag{language.English, language.Russian}

var pageMatcher = language.NewMatcher(pageLanguages)

var pageMessages = map[language.Tag]map[string]string{
	language.English: {
		"title":          "Preview",
		"no_posts":       "No posts specified",
		"too_many":       "Too many posts specified (maximum 10)",
		"load_failed":    "Failed to load posts",
		"not_found":      "Posts not found",
		"share":          "Share this preview",
		"copy":           "Copy link",
		"comments":       "Comments",
		"no_comments":    "No comments yet",
		"anonymous":      "Anonymous",
		"name":           "Your name",
		"email":          "Your email",
		"comment":        "Write a comment",
		"submit":         "Send",
		"published":      "Published",
		"comment_failed": "Could not send the comment",
	},
	language.Russian: {
		"title":          "Предпросмотр",
		"no_posts":       "Посты не указаны",
		"too_many":       "Указано слишком много постов (максимум 10)",
		"load_failed":    "Не удалось загрузить посты",
		"not_found":      "Посты не найдены",
		"share":          "Поделиться предпросмотром",
		"copy":           "Скопировать ссылку",
		"comments":       "Комментарии",
		"no_comments":    "Комментариев пока нет",
		"anonymous":      "Аноним",
		"name":           "Ваше имя",
		"email":          "Ваш email",
		"comment":        "Напишите комментарий",
		"submit":         "Отправить",
		"published":      "Опубликовано",
		"comment_failed": "Не удалось отправить комментарий",
	},
}

type previewThread struct {
	ID       string
	Posts    []models.Post
	Comments []models.Comment
}

type previewPage struct {
	Lang     string
	Title    string
	Message  string
	Share    bool
	ShareURL string
	Threads  []previewThread
	T        map[string]string
}

// PageLanguage picks the page language from an Accept-Language header.
func PageLanguage(acceptLanguage string) language.Tag {
	_, index := language.MatchStrings(pageMatcher, acceptLanguage)
	return pageLanguages[index]
}

// BulkPreview renders the shareable page for a set of posts. Every outcome,
// failures included, is a page for the visitor.
func (h *Handlers) BulkPreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lang := PageLanguage(r.Header.Get("Accept-Language"))
	messages := pageMessages[lang]

	page := previewPage{
		Lang:  lang.String(),
		Title: query.Get("title"),
		Share: query.Get("share") != "",
		T:     messages,
	}
	if page.Title == "" {
		page.Title = messages["title"]
	}

	ids := splitIDs(query.Get("posts"))
	switch {
	case len(ids) == 0:
		page.Message = messages["no_posts"]
	case len(ids) > service.MaxBulkPosts:
		page.Message = messages["too_many"]
	default:
		page.Threads, page.Message = h.loadThreads(r, ids, messages)
		page.ShareURL = h.shareURL(ids, query.Get("title"))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := previewTemplate.Execute(w, page); err != nil {
		h.Log.WithError(err).Error("failed to render preview page")
	}
}

func (h *Handlers) loadThreads(r *http.Request, ids service.IDList, messages map[string]string) ([]previewThread, string) {
	threads, err := h.Batch.ResolveThreads(r.Context(), ids)
	if err != nil {
		return nil, messages["load_failed"]
	}

	comments, err := h.Batch.ResolveComments(r.Context(), ids)
	if err != nil {
		h.Log.WithError(err).Warn("preview rendered without comments")
		comments = map[string][]models.Comment{}
	}

	var out []previewThread
	for i, thread := range threads {
		if len(thread) == 0 {
			continue
		}
		out = append(out, previewThread{
			ID:       ids[i],
			Posts:    thread,
			Comments: comments[ids[i]],
		})
	}

	if len(out) == 0 {
		return nil, messages["not_found"]
	}
	return out, ""
}

func (h *Handlers) shareURL(ids service.IDList, title string) string {
	values := url.Values{}
	values.Set("posts", strings.Join(ids, ","))
	if title != "" {
		values.Set("title", title)
	}
	return strings.TrimRight(h.Cfg.FrontendURL, "/") + "/bulk-preview?" + values.Encode()
}

func splitIDs(raw string) service.IDList {
	var ids service.IDList
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

var previewTemplate = template.Must(template.New("preview").Funcs(template.FuncMap{
	"commenter": func(c models.Comment, anonymous string) string {
		if c.ClientName != nil && *c.ClientName != "" {
			return *c.ClientName
		}
		return anonymous
	},
	"date": func(p models.Post) string {
		if p.PublishDate != nil {
			return p.PublishDate.UTC().Format("2006-01-02 15:04")
		}
		return p.CreatedAt.UTC().Format("2006-01-02 15:04")
	},
}).Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
{{if .Message}}<p class="message">{{.Message}}</p>{{end}}
{{if and .Share .Threads}}
<section class="share">
<p>{{.T.share}}</p>
<input id="share-url" readonly value="{{.ShareURL}}">
<button type="button" onclick="navigator.clipboard.writeText(document.getElementById('share-url').value)">{{.T.copy}}</button>
</section>
{{end}}
{{range .Threads}}
<article class="thread" id="thread-{{.ID}}">
{{range .Posts}}
<div class="post">
{{with .Integration}}<header><img src="{{.Picture}}" alt="" width="40" height="40"> <strong>{{.Name}}</strong></header>{{end}}
{{range .Content.Blocks}}<p>{{.Content}}</p>{{range .Image}}<img src="{{.Path}}" alt="">{{end}}{{end}}
{{range .Image}}<img src="{{.Path}}" alt="">{{end}}
<time>{{$.T.published}}: {{date .}}</time>
</div>
{{end}}
<section class="comments">
<h2>{{$.T.comments}}</h2>
{{range .Comments}}<div class="comment"><strong>{{commenter . $.T.anonymous}}</strong> <p>{{.Content}}</p></div>
{{else}}<p>{{$.T.no_comments}}</p>{{end}}
<form class="comment-form" data-post="{{.ID}}">
<input name="clientName" placeholder="{{$.T.name}}">
<input name="clientEmail" type="email" placeholder="{{$.T.email}}">
<textarea name="comment" required placeholder="{{$.T.comment}}"></textarea>
<button type="submit">{{$.T.submit}}</button>
</form>
</section>
</article>
{{end}}
</main>
<script>
(function () {
  var cookieName = "postiz-client-info";
  function readInfo() {
    var match = document.cookie.match(new RegExp("(?:^|; )" + cookieName + "=([^;]*)"));
    if (!match) return null;
    try { return JSON.parse(decodeURIComponent(match[1])); } catch (e) { return null; }
  }
  function saveInfo(name, email) {
    var value = encodeURIComponent(JSON.stringify({name: name, email: email, savedAt: new Date().toISOString()}));
    document.cookie = cookieName + "=" + value + "; path=/; max-age=" + 365 * 24 * 60 * 60 + "; samesite=lax";
  }
  var info = readInfo();
  document.querySelectorAll(".comment-form").forEach(function (form) {
    if (info) {
      form.clientName.value = info.name || "";
      form.clientEmail.value = info.email || "";
    }
    form.addEventListener("submit", function (event) {
      event.preventDefault();
      var body = {comment: form.comment.value, clientName: form.clientName.value, clientEmail: form.clientEmail.value};
      fetch("/public/posts/" + encodeURIComponent(form.dataset.post) + "/comments", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify(body)
      }).then(function (res) {
        if (!res.ok) throw new Error(res.status);
        saveInfo(body.clientName, body.clientEmail);
        window.location.reload();
      }).catch(function () { alert({{.T.comment_failed}}); });
    });
  });
})();
</script>
</body>
</html>
`))
