package domain

// RefreshState - состояние контроллера обновления
type RefreshState string

const (
	RefreshIdle       RefreshState = "idle"
	RefreshLoading    RefreshState = "loading"
	RefreshPresenting RefreshState = "presenting"
)
