package echo

type EchoRequest struct {
	Message string   `json:"message" binding:"required,min=1,max=500"`
	Tags    []string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=32"`
}

type BatchEchoRequest struct {
	Items []EchoRequest `json:"items" binding:"required,min=1,max=50,dive"`
}
