package plugin

// Post hooks
const (
	HookPostAfterCreate = "post.after_create"
	HookPostAfterUpdate = "post.after_update"

	// HookPostTransitionStatus fires on every save that carries a status:
	// Input {"new_status": string, "old_status": string, "post": *domain.Post}
	HookPostTransitionStatus = "post.transition_status"
)

// Admin screen hooks
const (
	// HookAdminListColumns filter
	// Input {"post_type": string, "post_status": string, "columns": []Column}
	HookAdminListColumns = "admin.list_columns"

	// HookAdminListColumnValue filter, called once per row per custom column
	// Input {"post_type": string, "column": string, "post_id": uint64, "html": string}
	HookAdminListColumnValue = "admin.list_column_value"

	// HookAdminPostSubmitbox filter for the publish box of the edit view
	// Input {"post": *domain.Post, "html": string}
	HookAdminPostSubmitbox = "admin.post_submitbox"

	// HookAdminHead filter for inline styles of admin pages
	// Input {"screen": string, "post_status": string, "styles": string}
	HookAdminHead = "admin.head"
)

// Admin screens passed to HookAdminHead
const (
	ScreenList = "edit"
	ScreenEdit = "post"
)

// Column admin listing column
type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
