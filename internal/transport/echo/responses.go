package echo

import "net/http"

type SuccessResponse struct {
	Status       string      `json:"status"`
	ResponseCode int         `json:"response_code"`
	Data         interface{} `json:"data"`
}

type FailureResponse struct {
	Status       string `json:"status"`
	ResponseCode int    `json:"response_code"`
	ErrorMessage string `json:"error_message"`
}

func getFailureResponse(code int, err error) FailureResponse {
	return FailureResponse{
		Status:       "Failure",
		ResponseCode: code,
		ErrorMessage: err.Error(),
	}
}

func getSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{
		Status:       "Success",
		ResponseCode: http.StatusOK,
		Data:         message,
	}
}

func getSuccessResponseWithData(data interface{}) SuccessResponse {
	return SuccessResponse{
		Status:       "Success",
		ResponseCode: http.StatusOK,
		Data:         data,
	}
}
