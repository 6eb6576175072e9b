package catalog

// FieldID identifies one governed field of a sales-order record. The set is
// closed: every field the workflow knows about is declared here, and the
// catalog table in this package must cover each one (asserted by tests).
type FieldID string

const (
	// Workflow-owned fields.
	FieldCurrentStatus FieldID = "current_status"
	FieldDosage        FieldID = "dosage"
	FieldEmailSent     FieldID = "email_sent"

	// Customer block.
	FieldCustomerName  FieldID = "customer_name"
	FieldCustomerCode  FieldID = "customer_code"
	FieldConsigneeName FieldID = "consignee_name"
	FieldCountry       FieldID = "country"
	FieldMarket        FieldID = "market"
	FieldCurrency      FieldID = "currency"
	FieldPaymentTerm   FieldID = "payment_term"

	// Product block.
	FieldItemCode            FieldID = "item_code"
	FieldProductName         FieldID = "product_name"
	FieldGenericName         FieldID = "generic_name"
	FieldComposition         FieldID = "composition"
	FieldStrength            FieldID = "strength"
	FieldTherapeuticCategory FieldID = "therapeutic_category"
	FieldShelfLife           FieldID = "shelf_life"
	FieldManufacturingSite   FieldID = "manufacturing_site"

	// Order block.
	FieldSONumber     FieldID = "so_number"
	FieldSODate       FieldID = "so_date"
	FieldQuantity     FieldID = "quantity"
	FieldFOCQuantity  FieldID = "foc_quantity"
	FieldBillingRate  FieldID = "billing_rate"
	FieldMRP          FieldID = "mrp"
	FieldOrderRemarks FieldID = "order_remarks"

	// Tablet-specific block.
	FieldTabletType  FieldID = "tablet_type"
	FieldTabletSize  FieldID = "tablet_size"
	FieldTabletShape FieldID = "tablet_shape"
	FieldCoatingType FieldID = "coating_type"
	FieldEmbossing   FieldID = "embossing"

	// Capsule-specific block.
	FieldCapsuleSize  FieldID = "capsule_size"
	FieldCapsuleColor FieldID = "capsule_color"
	FieldCapsuleType  FieldID = "capsule_type"

	// Liquid / injection block.
	FieldBottleSize FieldID = "bottle_size"
	FieldFillVolume FieldID = "fill_volume"
	FieldCapType    FieldID = "cap_type"

	// Powder block.
	FieldSachetSize FieldID = "sachet_size"

	// Packaging block.
	FieldPackShort              FieldID = "pack_short"
	FieldPackStyle              FieldID = "pack_style"
	FieldInnerPackQty           FieldID = "inner_pack_qty"
	FieldOuterPackQty           FieldID = "outer_pack_qty"
	FieldShipperSize            FieldID = "shipper_size"
	FieldQtyPerShipper          FieldID = "qty_per_shipper"
	FieldNoOfShippers           FieldID = "no_of_shippers"
	FieldFoilSize               FieldID = "foil_size"
	FieldLabelSize              FieldID = "label_size"
	FieldPackingMaterialRemarks FieldID = "packing_material_remarks"

	// Design / artwork block.
	FieldDrawingRefNo  FieldID = "drawing_ref_no"
	FieldDesignUnder   FieldID = "design_under"
	FieldArtworkStatus FieldID = "artwork_status"
	FieldCylinderRefNo FieldID = "cylinder_ref_no"

	// Misc.
	FieldComments FieldID = "comments"
	FieldRevNo    FieldID = "rev_no"
)

// AllFields lists every governed field in a stable order. The catalog table
// and the record storage layer iterate this slice, so a field declared above
// but missing here is invisible to the whole system; the catalog tests walk
// this slice to keep it and the table honest.
var AllFields = []FieldID{
	FieldCurrentStatus,
	FieldDosage,
	FieldEmailSent,
	FieldCustomerName,
	FieldCustomerCode,
	FieldConsigneeName,
	FieldCountry,
	FieldMarket,
	FieldCurrency,
	FieldPaymentTerm,
	FieldItemCode,
	FieldProductName,
	FieldGenericName,
	FieldComposition,
	FieldStrength,
	FieldTherapeuticCategory,
	FieldShelfLife,
	FieldManufacturingSite,
	FieldSONumber,
	FieldSODate,
	FieldQuantity,
	FieldFOCQuantity,
	FieldBillingRate,
	FieldMRP,
	FieldOrderRemarks,
	FieldTabletType,
	FieldTabletSize,
	FieldTabletShape,
	FieldCoatingType,
	FieldEmbossing,
	FieldCapsuleSize,
	FieldCapsuleColor,
	FieldCapsuleType,
	FieldBottleSize,
	FieldFillVolume,
	FieldCapType,
	FieldSachetSize,
	FieldPackShort,
	FieldPackStyle,
	FieldInnerPackQty,
	FieldOuterPackQty,
	FieldShipperSize,
	FieldQtyPerShipper,
	FieldNoOfShippers,
	FieldFoilSize,
	FieldLabelSize,
	FieldPackingMaterialRemarks,
	FieldDrawingRefNo,
	FieldDesignUnder,
	FieldArtworkStatus,
	FieldCylinderRefNo,
	FieldComments,
	FieldRevNo,
}

// Known reports whether id is a declared field.
func Known(id FieldID) bool {
	_, ok := table[id]
	return ok
}
