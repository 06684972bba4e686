package database

import "strings"

// PageQuery describes a structured filter over pages. The zero value
// matches every page. Filters combine with AND; within Domains the values
// combine with OR, while every name in Tags must be present on a page.
type PageQuery struct {
	// Domains restricts results to pages whose domain is in the list.
	Domains []string

	// Tags restricts results to pages carrying all of the given
	// (normalized) tag names.
	Tags []string

	// BookmarksOnly restricts results to bookmarked pages.
	BookmarksOnly bool

	// From and To bound the visit time window in Unix milliseconds,
	// half-open [From, To). Zero means unbounded on that side. A page
	// matches when it has at least one visit inside the window.
	From int64
	To   int64

	// URLPrefix restricts results to URLs starting with the prefix.
	URLPrefix string

	// URLs restricts results to pages with exactly these canonical URLs.
	URLs []string

	// Limit and Offset paginate FindPages results. Zero Limit means no
	// limit. They are ignored by CountPages and DeletePages.
	Limit  int
	Offset int
}

// IsEmpty reports whether the query carries no filter at all, so it would
// match every page. Limit and Offset are not filters.
func (q PageQuery) IsEmpty() bool {
	return len(q.Domains) == 0 && len(q.Tags) == 0 && !q.BookmarksOnly &&
		q.From == 0 && q.To == 0 && q.URLPrefix == "" && len(q.URLs) == 0
}

// build renders the WHERE clause (including the leading "WHERE" when any
// filter applies) and its arguments. The clause references pages as "p".
func (q PageQuery) build() (string, []any) {
	var conds []string
	var args []any

	if len(q.Domains) > 0 {
		placeholders := strings.Repeat("?,", len(q.Domains))
		conds = append(conds, "p.domain IN ("+placeholders[:len(placeholders)-1]+")")
		for _, d := range q.Domains {
			args = append(args, d)
		}
	}

	for _, tag := range q.Tags {
		conds = append(conds, "EXISTS (SELECT 1 FROM tags t WHERE t.url = p.url AND t.name = ?)")
		args = append(args, tag)
	}

	if q.BookmarksOnly {
		conds = append(conds, "EXISTS (SELECT 1 FROM bookmarks b WHERE b.url = p.url)")
	}

	if q.From > 0 || q.To > 0 {
		visit := "EXISTS (SELECT 1 FROM visits v WHERE v.url = p.url"
		if q.From > 0 {
			visit += " AND v.time >= ?"
			args = append(args, q.From)
		}
		if q.To > 0 {
			visit += " AND v.time < ?"
			args = append(args, q.To)
		}
		conds = append(conds, visit+")")
	}

	if q.URLPrefix != "" {
		conds = append(conds, `p.url LIKE ? ESCAPE '\'`)
		args = append(args, likePrefix(q.URLPrefix))
	}

	if len(q.URLs) > 0 {
		placeholders := strings.Repeat("?,", len(q.URLs))
		conds = append(conds, "p.url IN ("+placeholders[:len(placeholders)-1]+")")
		for _, u := range q.URLs {
			args = append(args, u)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// likePrefix converts a literal prefix into a LIKE pattern, escaping the
// LIKE metacharacters so URLs containing % or _ match literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
