package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleKo: koMessages,
		LocaleEn: enMessages,
		LocaleJa: jaMessages,
	}
}

var koMessages = map[string]string{
	"error.not_found":    "요청한 리소스를 찾을 수 없습니다",
	"error.unauthorized": "인증이 필요합니다",
	"error.forbidden":    "접근 권한이 없습니다",
	"error.bad_request":  "잘못된 요청입니다",
	"error.internal":     "서버 내부 오류가 발생했습니다",
	"error.validation":   "입력값이 올바르지 않습니다",

	"auth.login_success": "로그인 되었습니다",
	"auth.login_failed":  "아이디 또는 비밀번호가 올바르지 않습니다",
	"auth.token_expired": "인증 토큰이 만료되었습니다. 다시 로그인해주세요",
	"auth.token_invalid": "유효하지 않은 인증 토큰입니다",

	"post.not_found":       "게시글을 찾을 수 없습니다",
	"post.create_success":  "게시글이 작성되었습니다",
	"post.update_success":  "게시글이 수정되었습니다",
	"post.publish_success": "게시글이 발행되었습니다",
	"post.meta_readonly":   "수정할 수 없는 메타 필드입니다: %s",

	"admin.column.title":  "제목",
	"admin.column.author": "작성자",
	"admin.column.status": "상태",
	"admin.column.date":   "날짜",
}

var enMessages = map[string]string{
	"error.not_found":    "The requested resource was not found",
	"error.unauthorized": "Authentication required",
	"error.forbidden":    "Access denied",
	"error.bad_request":  "Bad request",
	"error.internal":     "Internal server error",
	"error.validation":   "Invalid input",

	"auth.login_success": "Successfully logged in",
	"auth.login_failed":  "Invalid username or password",
	"auth.token_expired": "Your session has expired. Please log in again",
	"auth.token_invalid": "Invalid authentication token",

	"post.not_found":       "Post not found",
	"post.create_success":  "Post created",
	"post.update_success":  "Post updated",
	"post.publish_success": "Post published",
	"post.meta_readonly":   "Meta field is not writable: %s",

	"admin.column.title":  "Title",
	"admin.column.author": "Author",
	"admin.column.status": "Status",
	"admin.column.date":   "Date",
}

var jaMessages = map[string]string{
	"error.not_found":    "リクエストされたリソースが見つかりません",
	"error.unauthorized": "認証が必要です",
	"error.forbidden":    "アクセス権限がありません",
	"error.bad_request":  "不正なリクエストです",
	"error.internal":     "サーバー内部エラーが発生しました",
	"error.validation":   "入力値が正しくありません",

	"auth.login_success": "ログインしました",
	"auth.login_failed":  "IDまたはパスワードが正しくありません",
	"auth.token_expired": "認証トークンの有効期限が切れました。再度ログインしてください",
	"auth.token_invalid": "無効な認証トークンです",

	"post.not_found":       "投稿が見つかりません",
	"post.create_success":  "投稿が作成されました",
	"post.update_success":  "投稿が更新されました",
	"post.publish_success": "投稿が公開されました",
	"post.meta_readonly":   "変更できないメタフィールドです: %s",

	"admin.column.title":  "タイトル",
	"admin.column.author": "作成者",
	"admin.column.status": "ステータス",
	"admin.column.date":   "日付",
}
