package mail

import (
	"bytes"
	"text/template"
)

// ReservationInfo 预约确认邮件内容
type ReservationInfo struct {
	Title              string
	Author             string
	ReserveDate        string
	TimeSlot           string
	Days               int
	ExpectedReturnDate string // YYYY-MM-DD
}

var reservationTmpl = template.Must(template.New("reservation").Parse(`您的图书预约已成功创建！
图书信息:
书名: {{or .Title "未知"}}
作者: {{or .Author "未知"}}
预约详情:
预约日期: {{.ReserveDate}}
时间段: {{.TimeSlot}}
借阅天数: {{.Days}}
预计归还日期: {{.ExpectedReturnDate}}
请按时到图书馆借阅图书。
`))

// VerificationCodeMessage 验证码邮件
func VerificationCodeMessage(siteName, to, code string) Message {
	return Message{
		To:       to,
		Subject:  siteName + "注册验证码",
		TextBody: "欢迎来到" + siteName + "，您的验证码是: " + code + "，5分钟内有效。",
	}
}

// PasswordResetCodeMessage 找回密码验证码邮件
func PasswordResetCodeMessage(siteName, to, code string) Message {
	return Message{
		To:       to,
		Subject:  siteName + "找回密码验证码",
		TextBody: "您正在重置" + siteName + "账号密码，验证码是: " + code + "，5分钟内有效。如非本人操作请忽略。",
	}
}

// ReservationMessage 预约确认邮件
func ReservationMessage(siteName, to string, info ReservationInfo) (Message, error) {
	var buf bytes.Buffer
	if err := reservationTmpl.Execute(&buf, info); err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  siteName + "图书预约确认",
		TextBody: buf.String(),
	}, nil
}
