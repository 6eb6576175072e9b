// Package catalog declares the field governance table for sales-order
// approval records: for each field, who may edit it, which dosage forms it
// applies to, and whether it participates in the copy-from-previous and
// Progen-compare features. The table is pure data; every other workflow
// component consults it, so a field missing here is non-editable and
// non-visible everywhere.
package catalog

import (
	"github.com/avjabalpur/cian-erp-sub001/internal/approval"
	"github.com/avjabalpur/cian-erp-sub001/internal/rbac"
)

// Kind is the input kind a field renders as.
type Kind string

const (
	KindInfo         Kind = "info"
	KindText         Kind = "text"
	KindTextarea     Kind = "textarea"
	KindNumber       Kind = "number"
	KindDate         Kind = "date"
	KindSelect       Kind = "select"
	KindAutocomplete Kind = "autocomplete"
	KindComputed     Kind = "computed"
)

// AllKinds lists every valid input kind.
var AllKinds = []Kind{
	KindInfo, KindText, KindTextarea, KindNumber,
	KindDate, KindSelect, KindAutocomplete, KindComputed,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Spec declares the governance rules of one field.
type Spec struct {
	Title string
	Kind  Kind
	// EditRoles lists the roles allowed to edit the field. An empty list
	// means only admin (and, unless blocked, the record creator) may edit.
	EditRoles []rbac.Role
	// BlockedForCreator withholds the creator's broad edit rights for this
	// field even when the acting user created the record under the BD role.
	BlockedForCreator bool
	// Dosages restricts visibility to the listed dosage forms. A nil slice
	// means the field is always visible.
	Dosages []approval.Dosage
	// AllowCopyFromPrevious marks the field as a candidate for the
	// copy-from-previous-order feature.
	AllowCopyFromPrevious bool
	// AllowProgenCompare marks the field as a candidate for comparison
	// against the external Progen system.
	AllowProgenCompare bool
}

// VisibleFor reports whether the field is shown for the given dosage.
// A record with no dosage set hides every dosage-gated field.
func (s Spec) VisibleFor(d approval.Dosage) bool {
	if len(s.Dosages) == 0 {
		return true
	}
	for _, allowed := range s.Dosages {
		if d == allowed {
			return true
		}
	}
	return false
}

var (
	bdRoles      = []rbac.Role{rbac.RoleBusinessDevelopment}
	costingRoles = []rbac.Role{rbac.RoleCostingAdmin}
	designRoles  = []rbac.Role{rbac.RoleDesignAdmin}
	pmRoles      = []rbac.Role{rbac.RolePMAdmin}
	entryRoles   = []rbac.Role{rbac.RoleDataEntry}

	tabletOnly  = []approval.Dosage{approval.DosageTablet}
	capsuleOnly = []approval.Dosage{approval.DosageCapsule}
	powderOnly  = []approval.Dosage{approval.DosagePowder}
	blistered   = []approval.Dosage{approval.DosageTablet, approval.DosageCapsule}
	filled      = []approval.Dosage{approval.DosageLiquid, approval.DosageInjection}
	bottled     = []approval.Dosage{approval.DosageLiquid, approval.DosageInjection, approval.DosageOintment}
)

// table is the single source of truth for field governance. Presentation
// hints (widths, tooltips) deliberately live elsewhere.
var table = map[FieldID]Spec{
	FieldCurrentStatus: {Title: "Status", Kind: KindSelect, EditRoles: bdRoles},
	FieldDosage:        {Title: "Dosage Form", Kind: KindSelect, EditRoles: bdRoles, BlockedForCreator: true},
	FieldEmailSent:     {Title: "Email Sent", Kind: KindSelect, EditRoles: pmRoles},

	FieldCustomerName:  {Title: "Customer", Kind: KindAutocomplete, EditRoles: bdRoles, AllowCopyFromPrevious: true, AllowProgenCompare: true},
	FieldCustomerCode:  {Title: "Customer Code", Kind: KindInfo, AllowProgenCompare: true},
	FieldConsigneeName: {Title: "Consignee", Kind: KindText, EditRoles: bdRoles},
	FieldCountry:       {Title: "Country", Kind: KindSelect, EditRoles: bdRoles, AllowCopyFromPrevious: true},
	FieldMarket:        {Title: "Market", Kind: KindSelect, EditRoles: bdRoles, AllowCopyFromPrevious: true},
	FieldCurrency:      {Title: "Currency", Kind: KindSelect, EditRoles: bdRoles, AllowProgenCompare: true},
	FieldPaymentTerm:   {Title: "Payment Term", Kind: KindSelect, EditRoles: bdRoles, BlockedForCreator: true},

	FieldItemCode:            {Title: "Item Code", Kind: KindAutocomplete, EditRoles: entryRoles, BlockedForCreator: true, AllowProgenCompare: true},
	FieldProductName:         {Title: "Product", Kind: KindText, EditRoles: bdRoles, AllowCopyFromPrevious: true, AllowProgenCompare: true},
	FieldGenericName:         {Title: "Generic Name", Kind: KindText, EditRoles: bdRoles, AllowCopyFromPrevious: true},
	FieldComposition:         {Title: "Composition", Kind: KindTextarea, EditRoles: []rbac.Role{rbac.RoleBusinessDevelopment, rbac.RoleQAAdmin}, AllowCopyFromPrevious: true},
	FieldStrength:            {Title: "Strength", Kind: KindText, EditRoles: bdRoles, AllowCopyFromPrevious: true},
	FieldTherapeuticCategory: {Title: "Therapeutic Category", Kind: KindSelect, EditRoles: []rbac.Role{rbac.RoleBusinessDevelopment, rbac.RoleQAAdmin}},
	FieldShelfLife:           {Title: "Shelf Life", Kind: KindText, EditRoles: []rbac.Role{rbac.RoleQAAdmin}, AllowCopyFromPrevious: true},
	FieldManufacturingSite:   {Title: "Manufacturing Site", Kind: KindSelect, EditRoles: pmRoles, BlockedForCreator: true},

	FieldSONumber:     {Title: "SO Number", Kind: KindText, EditRoles: entryRoles, BlockedForCreator: true, AllowProgenCompare: true},
	FieldSODate:       {Title: "SO Date", Kind: KindDate, EditRoles: entryRoles, BlockedForCreator: true, AllowProgenCompare: true},
	FieldQuantity:     {Title: "Quantity", Kind: KindNumber, EditRoles: bdRoles, AllowProgenCompare: true},
	FieldFOCQuantity:  {Title: "FOC Quantity", Kind: KindNumber, EditRoles: bdRoles},
	FieldBillingRate:  {Title: "Billing Rate", Kind: KindNumber, EditRoles: costingRoles, BlockedForCreator: true, AllowProgenCompare: true},
	FieldMRP:          {Title: "MRP", Kind: KindNumber, EditRoles: costingRoles, BlockedForCreator: true},
	FieldOrderRemarks: {Title: "Order Remarks", Kind: KindTextarea, EditRoles: bdRoles},

	FieldTabletType:  {Title: "Tablet Type", Kind: KindSelect, EditRoles: bdRoles, Dosages: tabletOnly, AllowCopyFromPrevious: true},
	FieldTabletSize:  {Title: "Tablet Size", Kind: KindSelect, EditRoles: bdRoles, Dosages: tabletOnly, AllowCopyFromPrevious: true},
	FieldTabletShape: {Title: "Tablet Shape", Kind: KindSelect, EditRoles: bdRoles, Dosages: tabletOnly},
	FieldCoatingType: {Title: "Coating Type", Kind: KindSelect, EditRoles: bdRoles, Dosages: tabletOnly},
	FieldEmbossing:   {Title: "Embossing", Kind: KindText, EditRoles: bdRoles, Dosages: tabletOnly},

	FieldCapsuleSize:  {Title: "Capsule Size", Kind: KindSelect, EditRoles: bdRoles, Dosages: capsuleOnly, AllowCopyFromPrevious: true},
	FieldCapsuleColor: {Title: "Capsule Colour", Kind: KindText, EditRoles: bdRoles, Dosages: capsuleOnly},
	FieldCapsuleType:  {Title: "Capsule Type", Kind: KindSelect, EditRoles: bdRoles, Dosages: capsuleOnly},

	FieldBottleSize: {Title: "Bottle Size", Kind: KindSelect, EditRoles: bdRoles, Dosages: bottled, AllowCopyFromPrevious: true},
	FieldFillVolume: {Title: "Fill Volume", Kind: KindNumber, EditRoles: bdRoles, Dosages: filled},
	FieldCapType:    {Title: "Cap Type", Kind: KindSelect, EditRoles: bdRoles, Dosages: bottled},

	FieldSachetSize: {Title: "Sachet Size", Kind: KindSelect, EditRoles: bdRoles, Dosages: powderOnly},

	FieldPackShort:              {Title: "Pack Short", Kind: KindText, EditRoles: bdRoles, AllowCopyFromPrevious: true, AllowProgenCompare: true},
	FieldPackStyle:              {Title: "Packing Style", Kind: KindSelect, EditRoles: pmRoles, AllowCopyFromPrevious: true},
	FieldInnerPackQty:           {Title: "Inner Pack Qty", Kind: KindNumber, EditRoles: pmRoles},
	FieldOuterPackQty:           {Title: "Outer Pack Qty", Kind: KindNumber, EditRoles: pmRoles},
	FieldShipperSize:            {Title: "Shipper Size", Kind: KindSelect, EditRoles: pmRoles, AllowCopyFromPrevious: true},
	FieldQtyPerShipper:          {Title: "Qty Per Shipper", Kind: KindNumber, EditRoles: pmRoles, AllowCopyFromPrevious: true},
	FieldNoOfShippers:           {Title: "No. of Shippers", Kind: KindComputed},
	FieldFoilSize:               {Title: "Foil Size", Kind: KindText, EditRoles: designRoles, Dosages: blistered},
	FieldLabelSize:              {Title: "Label Size", Kind: KindText, EditRoles: designRoles, Dosages: bottled},
	FieldPackingMaterialRemarks: {Title: "PM Remarks", Kind: KindTextarea, EditRoles: pmRoles},

	FieldDrawingRefNo:  {Title: "Drawing Ref No", Kind: KindText, EditRoles: designRoles, BlockedForCreator: true},
	FieldDesignUnder:   {Title: "Design Under", Kind: KindSelect, EditRoles: designRoles, BlockedForCreator: true},
	FieldArtworkStatus: {Title: "Artwork Status", Kind: KindSelect, EditRoles: designRoles, BlockedForCreator: true},
	FieldCylinderRefNo: {Title: "Cylinder Ref No", Kind: KindText, EditRoles: designRoles, BlockedForCreator: true},

	FieldComments: {Title: "Comments", Kind: KindTextarea, EditRoles: bdRoles},
	FieldRevNo:    {Title: "Revision", Kind: KindInfo},
}

// Lookup returns the governance spec for a field.
func Lookup(id FieldID) (Spec, bool) {
	spec, ok := table[id]
	return spec, ok
}

// CopyCandidates returns the fields eligible for copy-from-previous under
// the given dosage. Fields hidden for the dosage never appear.
func CopyCandidates(d approval.Dosage) []FieldID {
	return candidates(d, func(s Spec) bool { return s.AllowCopyFromPrevious })
}

// CompareCandidates returns the fields eligible for Progen comparison under
// the given dosage. Fields hidden for the dosage never appear.
func CompareCandidates(d approval.Dosage) []FieldID {
	return candidates(d, func(s Spec) bool { return s.AllowProgenCompare })
}

func candidates(d approval.Dosage, include func(Spec) bool) []FieldID {
	var out []FieldID
	for _, id := range AllFields {
		spec, ok := table[id]
		if !ok || !include(spec) {
			continue
		}
		if !spec.VisibleFor(d) {
			continue
		}
		out = append(out, id)
	}
	return out
}
