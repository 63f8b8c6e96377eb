package weather

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle position of a lookup.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []Status{StatusIdle, StatusLoading, StatusSuccess, StatusError} {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// ResultState is one immutable snapshot of the lookup lifecycle. The
// controller replaces its current value on every transition and never
// mutates a value it has handed out.
type ResultState struct {
	Status    Status           `json:"status"`
	RequestID string           `json:"requestId,omitempty"`
	City      string           `json:"city,omitempty"`
	Response  *WeatherResponse `json:"response,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// Idle is the initial state and the state after a Success was consumed.
func Idle() ResultState { return ResultState{Status: StatusIdle} }

func loading(requestID, city string) ResultState {
	return ResultState{Status: StatusLoading, RequestID: requestID, City: city}
}

func succeeded(requestID, city string, resp WeatherResponse) ResultState {
	return ResultState{Status: StatusSuccess, RequestID: requestID, City: city, Response: &resp}
}

func failed(requestID, city string) ResultState {
	return ResultState{Status: StatusError, RequestID: requestID, City: city, Message: GenericErrorMessage}
}

// Result is the (response, display temperature) slot kept for the detail
// view. It survives consumption of the Success state.
type Result struct {
	RequestID          string          `json:"requestId"`
	City               string          `json:"city"`
	Response           WeatherResponse `json:"response"`
	DisplayTemperature float64         `json:"displayTemperatureF"`
}
