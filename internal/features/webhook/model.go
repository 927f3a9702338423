package webhook

type textContent struct {
	Content string `json:"content"`
}

// dingTalkMessage is the robot "text" message body
type dingTalkMessage struct {
	MsgType string      `json:"msgtype"`
	Text    textContent `json:"text"`
}

type dingTalkResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}
