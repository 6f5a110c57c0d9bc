package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"404"`
		Message string `json:"message" example:"Прогон не найден"`
	} `json:"error"`
}

// MessageResponse представляет стандартный успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Abort requested"`
}

// StartRunResponse представляет ответ при успешном запуске прогона.
type StartRunResponse struct {
	Status string   `json:"status" example:"ok"`
	Run    *RunInfo `json:"run"`
}

// GetRunsResponse представляет ответ со списком всех прогонов.
type GetRunsResponse struct {
	Status string     `json:"status" example:"ok"`
	Count  int        `json:"count" example:"2"`
	Runs   []*RunInfo `json:"runs"`
}

// GetStepsResponse представляет ответ со строками результатов прогона.
type GetStepsResponse struct {
	Status string       `json:"status" example:"ok"`
	Count  int          `json:"count" example:"9"`
	Steps  []StepRecord `json:"steps"`
}
