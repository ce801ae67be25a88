package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

func subjectFor(job *Job) string {
	return fmt.Sprintf("New Order #%s - Grocery Mart", job.OrderID)
}

var emailTmpl = template.Must(template.New("order-email").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2d3748; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px;">New Order Received</h2>

  <h3 style="color: #4a5568; margin-top: 20px;">Order Details</h3>
  <p><strong>Order ID:</strong> {{.OrderID}}</p>
  <p><strong>Order Date:</strong> {{.OrderDate}}</p>
  <p><strong>Payment Type:</strong> Cash on Delivery</p>
  <p><strong>Status:</strong> {{.Status}}</p>

  <h3 style="color: #4a5568; margin-top: 20px;">Customer Information</h3>
  <p><strong>Name:</strong> {{.Address.FirstName}} {{.Address.LastName}}</p>
  <p><strong>Phone:</strong> {{.Address.Phone}}</p>
  <p><strong>Address:</strong> {{.Address.Street}}, {{.Address.Town}}</p>

  <h3 style="color: #4a5568; margin-top: 20px;">Order Summary</h3>
  <table style="width: 100%; border-collapse: collapse; margin-top: 10px;">
    <thead>
      <tr style="background-color: #f7fafc; text-align: left;">
        <th style="padding: 8px; border: 1px solid #e2e8f0;">Item</th>
        <th style="padding: 8px; border: 1px solid #e2e8f0;">Qty</th>
        <th style="padding: 8px; border: 1px solid #e2e8f0;">Price</th>
        <th style="padding: 8px; border: 1px solid #e2e8f0;">Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="padding: 8px; border: 1px solid #e2e8f0;">{{.Name}}</td>
        <td style="padding: 8px; border: 1px solid #e2e8f0;">{{.Quantity}}</td>
        <td style="padding: 8px; border: 1px solid #e2e8f0;">Rs. {{.UnitPrice}}</td>
        <td style="padding: 8px; border: 1px solid #e2e8f0;">Rs. {{.LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div style="margin-top: 20px; padding-top: 10px; border-top: 2px solid #e2e8f0;">
    <p style="text-align: right;"><strong>Subtotal:</strong> Rs. {{.Subtotal}}</p>
    <p style="text-align: right;"><strong>Delivery:</strong> Rs. {{.DeliveryCharge}}</p>
    <p style="text-align: right;"><strong>Tax:</strong> Rs. {{.Tax}}</p>
    <p style="text-align: right; font-size: 1.2em; font-weight: bold;">Total Amount: Rs. {{.Total}}</p>
  </div>
</div>
`))

// RenderEmail renders the seller notification body for a job.
func RenderEmail(job *Job) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, job); err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}
