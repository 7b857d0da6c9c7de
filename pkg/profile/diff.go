package profile

import (
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/proposal"
)

// Diff compara el perfil original con el reconciliado y produce una propuesta
// por cada cambio en un campo de la lista blanca. Es una función pura y
// determinista: el orden de salida sigue el orden fijo de los campos del
// perfil y, dentro de una lista, el orden de sus elementos. Nunca emite
// propuestas de borrado; el reconciliador garantiza que no hay eliminaciones.
// Los IDs se asignan al persistir, no aquí.
func Diff(original, reconciled *Profile, ownerID kernel.UserID) []proposal.PendingProposal {
	if original == nil {
		original = &Profile{}
	}
	if reconciled == nil {
		return nil
	}

	d := differ{ownerID: ownerID}

	d.scalar("displayName", original.DisplayName, reconciled.DisplayName)
	d.scalar("gender", original.Gender, reconciled.Gender)
	d.scalar("occupation", original.Occupation, reconciled.Occupation)
	d.scalar("relationshipStatus", original.RelationshipStatus, reconciled.RelationshipStatus)
	d.scalar("preferredInteractionTime", original.PreferredInteractionTime, reconciled.PreferredInteractionTime)
	d.stringList("cognitivePatterns", original.CognitivePatterns, reconciled.CognitivePatterns)
	d.relationshipList("importantRelationships", original.ImportantRelationships, reconciled.ImportantRelationships)
	d.stringList("lifeChallenges", original.LifeChallenges, reconciled.LifeChallenges)
	d.stringList("hobbies", original.Hobbies, reconciled.Hobbies)
	d.stringList("ambitions", original.Ambitions, reconciled.Ambitions)
	d.stringList("growthAreas", original.GrowthAreas, reconciled.GrowthAreas)
	d.scalarBool("takesMedication", original.TakesMedication, reconciled.TakesMedication)
	d.scalar("medicationName", original.MedicationName, reconciled.MedicationName)
	d.scalarBool("seesTherapist", original.SeesTherapist, reconciled.SeesTherapist)
	d.stringList("healthConditions", original.HealthConditions, reconciled.HealthConditions)

	return d.proposals
}

type differ struct {
	ownerID   kernel.UserID
	proposals []proposal.PendingProposal
}

func (d *differ) emit(field string, op proposal.Operation, point string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		// whitelisted values are strings, bools and plain records; this
		// cannot fail for them
		return
	}
	d.proposals = append(d.proposals, proposal.PendingProposal{
		OwnerID:     d.ownerID,
		Point:       point,
		SourceField: field,
		Operation:   op,
		Value:       raw,
		Status:      proposal.StatusPending,
	})
}

func (d *differ) scalar(field string, oldVal, newVal *string) {
	if newVal == nil {
		return
	}
	if oldVal != nil && *oldVal == *newVal {
		return
	}
	point := fmt.Sprintf("اقتراح: تحديث **%s** إلى **'%s'**.", FieldLabels[field], *newVal)
	d.emit(field, proposal.OperationSet, point, *newVal)
}

func (d *differ) scalarBool(field string, oldVal, newVal *bool) {
	if newVal == nil {
		return
	}
	if oldVal != nil && *oldVal == *newVal {
		return
	}
	point := fmt.Sprintf("اقتراح: تحديث **%s** إلى **'%v'**.", FieldLabels[field], *newVal)
	d.emit(field, proposal.OperationSet, point, *newVal)
}

func (d *differ) stringList(field string, oldList, newList []string) {
	existing := make(map[string]struct{}, len(oldList))
	for _, item := range oldList {
		existing[item] = struct{}{}
	}
	for _, item := range newList {
		if item == "" {
			continue
		}
		if _, ok := existing[item]; ok {
			continue
		}
		point := fmt.Sprintf("اقتراح: إضافة **'%s'** إلى **%s**.", item, FieldLabels[field])
		d.emit(field, proposal.OperationAppendToList, point, item)
	}
}

// relationshipList dedupes by the record's name, the identity key for
// relationship-shaped entries
func (d *differ) relationshipList(field string, oldList, newList []Relationship) {
	existing := make(map[string]struct{}, len(oldList))
	for _, rel := range oldList {
		existing[rel.Name] = struct{}{}
	}
	for _, rel := range newList {
		if rel.Name == "" {
			continue
		}
		if _, ok := existing[rel.Name]; ok {
			continue
		}
		point := fmt.Sprintf("اقتراح: إضافة **'%s'** إلى **%s**.", rel.Name, FieldLabels[field])
		d.emit(field, proposal.OperationAppendToList, point, rel)
	}
}
