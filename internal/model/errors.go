// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, scouting, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEmailAlreadyRegistered = "EMAIL_ALREADY_REGISTERED"
	ErrCodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	ErrCodeOTPExpired             = "OTP_EXPIRED"
	ErrCodeOTPMismatch            = "OTP_MISMATCH"
	ErrCodeOTPNotIssued           = "OTP_NOT_ISSUED"
	ErrCodeAccountNotVerified     = "ACCOUNT_NOT_VERIFIED"
	ErrCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	ErrCodeInvalidRefreshToken    = "INVALID_REFRESH_TOKEN"
	ErrCodeProfileNotFound        = "PROFILE_NOT_FOUND"
	ErrCodeOrganizationNotFound   = "ORGANIZATION_NOT_FOUND"
	ErrCodeScoutingNotFound       = "SCOUTING_NOT_FOUND"
	ErrCodeScoutingClosed         = "SCOUTING_CLOSED"
	ErrCodeApplicationNotFound    = "APPLICATION_NOT_FOUND"
	ErrCodeDuplicateApplication   = "DUPLICATE_APPLICATION"
	ErrCodeApplicationNotPending  = "APPLICATION_NOT_PENDING"
	ErrCodeNotOwner               = "NOT_OWNER"
	ErrCodeRosterMemberNotFound   = "ROSTER_MEMBER_NOT_FOUND"
	ErrCodeNotificationNotFound   = "NOTIFICATION_NOT_FOUND"
	ErrCodeInvalidScoutingStatus  = "INVALID_SCOUTING_STATUS"
)

// NewEmailAlreadyRegisteredError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyRegistered,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスで登録するか、ログインしてください。",
	}
}

// NewAccountNotFoundError はアカウント未検出エラーを生成する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "アカウントが見つかりません。",
		Category: "auth",
		Action:   "メールアドレスを確認してください。",
	}
}

// NewOTPExpiredError は認証コード期限切れエラーを生成する。
func NewOTPExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPExpired,
		Message:  "認証コードの有効期限が切れています。",
		Category: "auth",
		Action:   "認証コードを再送信してください。",
	}
}

// NewOTPMismatchError は認証コード不一致エラーを生成する。
func NewOTPMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPMismatch,
		Message:  "認証コードが一致しません。",
		Category: "auth",
		Action:   "メールに記載された6桁のコードを確認してください。",
	}
}

// NewOTPNotIssuedError は認証コード未発行エラーを生成する。
// コードが発行されていないアカウントに対する検証リクエストで返す。
func NewOTPNotIssuedError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPNotIssued,
		Message:  "認証コードが発行されていません。",
		Category: "auth",
		Action:   "認証コードの送信を先にリクエストしてください。",
	}
}

// NewAccountNotVerifiedError はメール未認証エラーを生成する。
func NewAccountNotVerifiedError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotVerified,
		Message:  "メールアドレスの認証が完了していません。",
		Category: "auth",
		Action:   "メールに記載された認証コードで認証を完了してください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidRefreshTokenError はリフレッシュトークン無効エラーを生成する。
func NewInvalidRefreshTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRefreshToken,
		Message:  "リフレッシュトークンが無効です。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewProfileNotFoundError はプロフィール未検出エラーを生成する。
func NewProfileNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  "プロフィールが見つかりません。",
		Category: "scouting",
		Action:   "プロフィールを作成してください。",
	}
}

// NewOrganizationNotFoundError は組織未検出エラーを生成する。
func NewOrganizationNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeOrganizationNotFound,
		Message:  "組織が見つかりません。",
		Category: "scouting",
		Action:   "組織IDを確認してください。",
	}
}

// NewScoutingNotFoundError は募集未検出エラーを生成する。
func NewScoutingNotFoundError(scoutingID string) *APIError {
	return &APIError{
		Code:     ErrCodeScoutingNotFound,
		Message:  fmt.Sprintf("指定された募集が見つかりません: %s", scoutingID),
		Category: "scouting",
		Action:   "募集IDを確認してください。",
	}
}

// NewScoutingClosedError は募集終了済みエラーを生成する。
func NewScoutingClosedError() *APIError {
	return &APIError{
		Code:     ErrCodeScoutingClosed,
		Message:  "この募集は受付を終了しています。",
		Category: "scouting",
		Action:   "他の募集を探してください。",
	}
}

// NewApplicationNotFoundError は応募未検出エラーを生成する。
func NewApplicationNotFoundError(applicationID string) *APIError {
	return &APIError{
		Code:     ErrCodeApplicationNotFound,
		Message:  fmt.Sprintf("指定された応募が見つかりません: %s", applicationID),
		Category: "scouting",
		Action:   "応募IDを確認してください。",
	}
}

// NewDuplicateApplicationError は重複応募エラーを生成する。
func NewDuplicateApplicationError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateApplication,
		Message:  "この募集には既に応募しています。",
		Category: "scouting",
		Action:   "応募一覧から選考状況を確認してください。",
	}
}

// NewApplicationNotPendingError は選考済み応募への操作エラーを生成する。
func NewApplicationNotPendingError() *APIError {
	return &APIError{
		Code:     ErrCodeApplicationNotPending,
		Message:  "この応募は既に選考が完了しています。",
		Category: "scouting",
		Action:   "選考待ちの応募に対してのみ実行できます。",
	}
}

// NewNotOwnerError は所有者以外による操作エラーを生成する。
func NewNotOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotOwner,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースに対してのみ実行できます。",
	}
}

// NewRosterMemberNotFoundError はロスター未所属エラーを生成する。
func NewRosterMemberNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeRosterMemberNotFound,
		Message:  "指定された選手はロスターに所属していません。",
		Category: "scouting",
		Action:   "ロスターを確認してください。",
	}
}

// NewNotificationNotFoundError は通知未検出エラーを生成する。
func NewNotificationNotFoundError(notificationID string) *APIError {
	return &APIError{
		Code:     ErrCodeNotificationNotFound,
		Message:  fmt.Sprintf("指定された通知が見つかりません: %s", notificationID),
		Category: "system",
		Action:   "通知IDを確認してください。",
	}
}

// NewInvalidScoutingStatusError は不正な募集ステータス指定エラーを生成する。
func NewInvalidScoutingStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidScoutingStatus,
		Message:  fmt.Sprintf("不正な募集ステータスです: %s", status),
		Category: "validation",
		Action:   "statusにはopenまたはclosedを指定してください。",
	}
}
