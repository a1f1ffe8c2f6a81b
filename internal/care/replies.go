package care

import (
	"fmt"
	"strings"

	"telecom-care/internal/intent"
)

const (
	ReplyIncidentError = "I'm sorry, but there was an error creating your incident ticket. Please try again later or contact our customer service at 1200."
	ReplyOrderError    = "I'm sorry, but there was an error processing your order. Please try again later or contact our customer service at 1200."
	ReplyRenewalError  = "I'm sorry, but there was an error processing your renewal request. Please try again later or contact our customer service at 1200."
	ReplyUnavailable   = "Sorry, I'm having trouble processing your request. Please try again later."
)

// Reply fragments are concatenated without separators where the chat UI expects it.
func proposalReply(category string) string {
	reply := "It seems like you're experiencing an issue."
	switch category {
	case intent.CategoryInternet:
		reply += "Before creating an incident ticket, you can try: - Restart your router - Check if other devices are affected - Verify your WiFi connection"
	case intent.CategoryTV:
		reply += "Before creating an incident ticket, you can try: - Restart your TV box - Check your TV connection cables - Verify if other channels are affected"
	case intent.CategoryPhone:
		reply += " Before creating an incident ticket, you can try: - Restart your phone - Check if airplane mode is off - Verify if the issue affects calls, data, or both"
	default:
		reply += "Before creating an incident ticket, you can try: - Restart your device - Check your connection - Verify if the issue affects other services"
	}
	return reply + " If the issue persists, would you like to create an incident ticket for our support team to help you?"
}

func incidentCreatedReply(category, incidentID string) string {
	reply := fmt.Sprintf("I've created an incident ticket for your %s issue. Your incident ID is **%s**.", strings.ToLower(category), incidentID)
	switch category {
	case intent.CategoryInternet:
		reply += "In the meantime, you can try these steps: - Restart your router - Check if other devices are affected - Verify your WiFi connection"
	case intent.CategoryTV:
		reply += " While waiting, you can try: - Restart your TV box - Check your TV connection cables - Verify if other channels are affected"
	case intent.CategoryPhone:
		reply += " You can try these troubleshooting steps: - Restart your phone - Check if airplane mode is off - Verify if the issue affects calls, data, or both"
	}
	return reply + " Would you like to speak with a customer service representative about this issue?"
}

func orderConfirmedReply(product, plan, orderID string) string {
	return fmt.Sprintf("Great! Your order for **%s** with the **%s** plan has been confirmed. Your order number is **%s**. The service will be active starting today. Is there anything else I can help you with?", product, plan, orderID)
}

func renewalReply(product, plan string) string {
	return fmt.Sprintf("I've initiated the renewal process for your %s plan with the %s option. Would you like me to confirm the renewal now?", product, plan)
}

func expiryReply(product, plan string, days int) string {
	return fmt.Sprintf("I noticed your %s plan with the %s option will expire in %d days. Would you like to renew it?", product, plan, days)
}
