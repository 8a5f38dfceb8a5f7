// Package ubl construye el aviso de despacho (DespatchAdvice) UBL 2.1 de un envío.
package ubl

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	appshipment "github.com/jhoicas/inventario-envios/internal/application/shipment"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsDespatchAdvice = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NsCac            = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc            = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion = "2.1"
	// unitCode UN/ECE rec 20: unidad (pieza).
	unitCode = "NIU"
)

// DespatchAdviceBuilder implementa shipment.DespatchAdviceBuilder con etree.
type DespatchAdviceBuilder struct{}

var _ appshipment.DespatchAdviceBuilder = (*DespatchAdviceBuilder)(nil)

func NewDespatchAdviceBuilder() *DespatchAdviceBuilder { return &DespatchAdviceBuilder{} }

// BuildDespatchAdvice genera el XML del aviso de despacho (sin firma).
func (b *DespatchAdviceBuilder) BuildDespatchAdvice(doc appshipment.DeliveryDocument) ([]byte, error) {
	if doc.Shipment == nil || doc.Sender == nil || doc.Product == nil {
		return nil, fmt.Errorf("ubl: documento de envío incompleto")
	}
	s := doc.Shipment

	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := xml.CreateElement("DespatchAdvice")
	root.CreateAttr("xmlns", NsDespatchAdvice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", ublVersion)
	cbc(root, "ID", s.ID)
	cbc(root, "IssueDate", doc.IssuedAt.UTC().Format("2006-01-02"))
	cbc(root, "IssueTime", doc.IssuedAt.UTC().Format("15:04:05Z"))
	cbc(root, "DespatchAdviceTypeCode", s.Direction)
	cbc(root, "Note", "Estado: "+s.Status)
	cbc(root, "LineCountNumeric", "1")

	supplier := cac(root, "DespatchSupplierParty")
	writeParty(cac(supplier, "Party"), doc.Sender.Code, doc.Sender.Name)

	customer := cac(root, "DeliveryCustomerParty")
	customerParty := cac(customer, "Party")
	if doc.Recipient != nil {
		writeParty(customerParty, doc.Recipient.Code, doc.Recipient.Name)
	} else {
		writeParty(customerParty, "", doc.Destination())
	}

	writeShipment(root, doc)

	line := cac(root, "DespatchLine")
	cbc(line, "ID", "1")
	qty := cbc(line, "DeliveredQuantity", strconv.FormatInt(s.Quantity, 10))
	qty.CreateAttr("unitCode", unitCode)
	item := cac(line, "Item")
	cbc(item, "Name", doc.Product.Name)
	cbc(cac(item, "SellersItemIdentification"), "ID", doc.Product.SKU)
	if doc.Group != nil {
		prop := cac(item, "AdditionalItemProperty")
		cbc(prop, "Name", "Grupo")
		cbc(prop, "Value", doc.Group.Code)
	}
	if doc.StockItem != nil && doc.StockItem.ExpiryDate != nil {
		inst := cac(item, "ItemInstance")
		lot := cac(inst, "LotIdentification")
		cbc(lot, "ExpiryDate", doc.StockItem.ExpiryDate.UTC().Format("2006-01-02"))
	}

	xml.Indent(2)
	out, err := xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("ubl: serializar DespatchAdvice: %w", err)
	}
	return out, nil
}

// writeShipment: cac:Shipment con fecha de despacho y destino (bodega o dirección).
func writeShipment(root *etree.Element, doc appshipment.DeliveryDocument) {
	s := doc.Shipment
	sh := cac(root, "Shipment")
	cbc(sh, "ID", s.ID)
	cbc(cac(sh, "Consignment"), "ID", s.StockItemID)

	delivery := cac(sh, "Delivery")
	if s.DeliveredAt != nil {
		cbc(delivery, "ActualDeliveryDate", s.DeliveredAt.UTC().Format("2006-01-02"))
	}
	if doc.Recipient != nil {
		loc := cac(delivery, "DeliveryLocation")
		cbc(loc, "ID", doc.Recipient.Code)
		cbc(loc, "Description", doc.Recipient.Name)
	} else if s.ExternalAddress != nil {
		writeAddress(cac(delivery, "DeliveryAddress"), *s.ExternalAddress)
	}
	if s.DispatchedAt != nil {
		despatch := cac(delivery, "Despatch")
		cbc(despatch, "ActualDespatchDate", s.DispatchedAt.UTC().Format("2006-01-02"))
		cbc(despatch, "ActualDespatchTime", s.DispatchedAt.UTC().Format("15:04:05Z"))
	}
}

func writeParty(party *etree.Element, code, name string) {
	if code != "" {
		cbc(cac(party, "PartyIdentification"), "ID", code)
	}
	cbc(cac(party, "PartyName"), "Name", name)
}

func writeAddress(el *etree.Element, a entity.Address) {
	cbc(el, "StreetName", a.Line1)
	if a.Line2 != "" {
		cbc(el, "AdditionalStreetName", a.Line2)
	}
	cbc(el, "CityName", a.City)
	if a.PostalCode != "" {
		cbc(el, "PostalZone", a.PostalCode)
	}
	if a.Region != "" {
		cbc(el, "CountrySubentity", a.Region)
	}
	cbc(cac(el, "Country"), "IdentificationCode", a.Country)
}

func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func cac(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement("cac:" + tag)
}
